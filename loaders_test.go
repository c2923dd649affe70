package backchain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYAMLFacts(t *testing.T) {
	req := require.New(t)

	facts, err := FactsFromYAML(strings.NewReader(`facts:
- predicate: user
  args:
  - u1
- predicate: user
  args:
  - u2
- predicate: member
  args:
  - u1
  - admins
`))
	req.NoError(err)
	req.Len(facts, 3)

	r := NewResolver(NewKnowledgeBase(facts, nil))

	env, ok := r.Ask(lit("user", Variable("X")))
	req.True(ok)
	req.Equal(Constant("u1"), env.Resolve(Variable("X")))

	env, ok = r.Ask(lit("member", Variable("X"), Constant("admins")))
	req.True(ok)
	req.Equal(Constant("u1"), env.Resolve(Variable("X")))
}

func TestYAMLError(t *testing.T) {
	req := require.New(t)

	_, err := FactsFromYAML(strings.NewReader(`facts: [`))
	req.Error(err)
}

func TestSymbolicExpression(t *testing.T) {
	req := require.New(t)

	kb, err := ParseSymbolicExpression(`(
		(# some comment)
		((parent tom bob))
		((parent bob ann))
		((ancestor X Y) (parent X Y))
		((ancestor X Z) (parent X Y) (ancestor Y Z))
	)`)
	req.NoError(err)
	req.NotNil(kb)
	req.Len(kb.Facts(), 2)
	req.Len(kb.Rules(), 2)

	r := NewResolver(kb)
	_, ok := r.Ask(lit("ancestor", Constant("tom"), Constant("ann")))
	req.True(ok)
	_, ok = r.Ask(lit("ancestor", Constant("ann"), Constant("tom")))
	req.False(ok)
}

func TestSymbolicExpressionTerms(t *testing.T) {
	req := require.New(t)

	kb, err := ParseSymbolicExpression(`(
		((owns tom (car volvo)))
		((name tom "Tom Smith"))
	)`)
	req.NoError(err)

	facts := kb.Facts()
	req.Len(facts, 2)
	req.Equal(&Function{Functor: "car", Args: []Term{Constant("volvo")}}, facts[0].Args[1])
	req.Equal(Constant("Tom Smith"), facts[1].Args[1])
}

func TestSymbolicExpressionIllFormed(t *testing.T) {
	req := require.New(t)

	_, err := ParseSymbolicExpression(`(
		(("not a functor" X))
	)`)
	req.ErrorIs(err, ErrIllFormed)
}
