package backchain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindingsExtend(t *testing.T) {
	req := require.New(t)

	var env *Bindings
	env2 := env.Extend("X", Constant("a"))

	_, ok := env.Lookup("X")
	req.False(ok)

	v, ok := env2.Lookup("X")
	req.True(ok)
	req.Equal(Constant("a"), v)

	env3 := env2.Extend("Y", Constant("b"))
	_, ok = env2.Lookup("Y")
	req.False(ok)
	v, ok = env3.Lookup("X")
	req.True(ok)
	req.Equal(Constant("a"), v)
}

func TestBindingsExtendBound(t *testing.T) {
	req := require.New(t)

	env := (*Bindings)(nil).Extend("X", Constant("a"))
	req.Panics(func() { env.Extend("X", Constant("b")) })
}

func TestBindingsResolve(t *testing.T) {
	req := require.New(t)

	env := (*Bindings)(nil).
		Extend("X", Variable("Y")).
		Extend("Y", Constant("a"))

	req.Equal(Constant("a"), env.Resolve(Variable("X")))
	req.Equal(Variable("Z"), env.Resolve(Variable("Z")))
	req.Equal(
		&Function{Functor: "f", Args: []Term{Constant("a"), Variable("Z")}},
		env.Resolve(&Function{Functor: "f", Args: []Term{Variable("X"), Variable("Z")}}),
	)
}

func TestUnifyConstants(t *testing.T) {
	req := require.New(t)

	env, ok := Unify(Constant("a"), Constant("a"), nil)
	req.True(ok)
	req.Nil(env)

	prev := (*Bindings)(nil).Extend("X", Constant("b"))
	env, ok = Unify(Constant("a"), Constant("a"), prev)
	req.True(ok)
	req.Same(prev, env)

	_, ok = Unify(Constant("a"), Constant("b"), nil)
	req.False(ok)
}

func TestUnifyVariableBinding(t *testing.T) {
	req := require.New(t)

	env, ok := Unify(Variable("V"), Constant("a"), nil)
	req.True(ok)
	v, ok := env.Lookup("V")
	req.True(ok)
	req.Equal(Constant("a"), v)

	env, ok = Unify(Constant("a"), Variable("V"), nil)
	req.True(ok)
	v, ok = env.Lookup("V")
	req.True(ok)
	req.Equal(Constant("a"), v)
}

func TestUnifyBoundVariable(t *testing.T) {
	req := require.New(t)

	env := (*Bindings)(nil).Extend("V", Constant("a"))

	env2, ok := Unify(Variable("V"), Constant("a"), env)
	req.True(ok)
	req.Same(env, env2)

	_, ok = Unify(Variable("V"), Constant("b"), env)
	req.False(ok)
}

func TestUnifyVariables(t *testing.T) {
	req := require.New(t)

	env, ok := Unify(Variable("X"), Variable("X"), nil)
	req.True(ok)
	req.Nil(env)

	env, ok = Unify(Variable("X"), Variable("Y"), nil)
	req.True(ok)
	v, ok := env.Lookup("X")
	req.True(ok)
	req.Equal(Variable("Y"), v)

	// The reverse direction resolves the existing binding instead of
	// creating a cyclic one.
	env2, ok := Unify(Variable("Y"), Variable("X"), env)
	req.True(ok)
	req.Same(env, env2)
}

func TestOccursCheck(t *testing.T) {
	req := require.New(t)

	_, ok := Unify(Variable("V"), &Function{Functor: "f", Args: []Term{Variable("V")}}, nil)
	req.False(ok)

	// V occurs only after substitution.
	env := (*Bindings)(nil).Extend("W", Variable("V"))
	_, ok = Unify(Variable("V"), &Function{Functor: "f", Args: []Term{Variable("W")}}, env)
	req.False(ok)

	env2, ok := Unify(Variable("V"), &Function{Functor: "f", Args: []Term{Variable("U")}}, nil)
	req.True(ok)
	v, ok := env2.Lookup("V")
	req.True(ok)
	req.Equal(&Function{Functor: "f", Args: []Term{Variable("U")}}, v)
}

func TestUnifyCompound(t *testing.T) {
	req := require.New(t)

	env, ok := Unify(
		&Function{Functor: "f", Args: []Term{Variable("X"), Constant("a")}},
		&Function{Functor: "f", Args: []Term{Constant("b"), Variable("Y")}},
		nil,
	)
	req.True(ok)
	req.Equal(Constant("b"), env.Resolve(Variable("X")))
	req.Equal(Constant("a"), env.Resolve(Variable("Y")))

	_, ok = Unify(
		&Function{Functor: "f", Args: []Term{Variable("X")}},
		&Function{Functor: "g", Args: []Term{Variable("X")}},
		nil,
	)
	req.False(ok)

	_, ok = Unify(
		&Function{Functor: "f", Args: []Term{Variable("X")}},
		&Function{Functor: "f", Args: []Term{Variable("X"), Variable("Y")}},
		nil,
	)
	req.False(ok)
}

func TestUnifyFunctionConstant(t *testing.T) {
	req := require.New(t)

	fn := &Function{Functor: "f", Args: []Term{Constant("a")}}
	_, ok := Unify(fn, Constant("c"), nil)
	req.False(ok)
	_, ok = Unify(Constant("c"), fn, nil)
	req.False(ok)
}

func TestUnifySymmetry(t *testing.T) {
	req := require.New(t)

	pairs := [][2]Term{
		{Variable("X"), Constant("a")},
		{Variable("X"), Variable("Y")},
		{
			&Function{Functor: "f", Args: []Term{Variable("X"), Constant("a")}},
			&Function{Functor: "f", Args: []Term{Constant("b"), Variable("Y")}},
		},
		{Variable("X"), &Function{Functor: "f", Args: []Term{Variable("Y")}}},
	}
	for _, pair := range pairs {
		env1, ok1 := Unify(pair[0], pair[1], nil)
		env2, ok2 := Unify(pair[1], pair[0], nil)
		req.Equal(ok1, ok2)
		req.True(ok1)
		// Either direction must yield a unifier of the pair.
		req.Equal(env1.Resolve(pair[0]), env1.Resolve(pair[1]))
		req.Equal(env2.Resolve(pair[0]), env2.Resolve(pair[1]))
	}
}

func TestUnifyLiterals(t *testing.T) {
	req := require.New(t)

	env, ok := UnifyLiterals(
		&Literal{Predicate: "p", Args: []Term{Variable("X"), Constant("a")}},
		&Literal{Predicate: "p", Args: []Term{Constant("b"), Variable("Y")}},
		nil,
	)
	req.True(ok)
	req.Equal(Constant("b"), env.Resolve(Variable("X")))
	req.Equal(Constant("a"), env.Resolve(Variable("Y")))

	_, ok = UnifyLiterals(
		&Literal{Predicate: "p", Args: []Term{Constant("a")}},
		&Literal{Predicate: "q", Args: []Term{Constant("a")}},
		nil,
	)
	req.False(ok)

	_, ok = UnifyLiterals(
		&Literal{Predicate: "p", Args: []Term{Constant("a")}},
		&Literal{Predicate: "p", Args: []Term{Constant("a"), Constant("b")}},
		nil,
	)
	req.False(ok)
}
