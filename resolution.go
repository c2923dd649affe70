// Package backchain provides a backward-chaining inference procedure over Horn clauses.
// It is embeddable in Go programs and proves goal literals against an in-memory
// knowledge base of ground facts and rules.
//
// # Terms
//
// Three kinds of terms can appear in literals:
//   - constants,
//   - variables,
//   - compound function terms.
//
// A literal is a predicate symbol applied to a list of terms.
//
// # Unification
//
// The process of unification compares the structures of two terms and finds the most
// general substitution that makes them equal, in case one exists.
// For example, the following two literals can be unified using the given substitution:
//
//	f(X, a), f(b, Y)
//	X = b, Y = a
//
// Most general unifiers are unique for any two terms. The occurs check is always
// performed, so a variable never unifies with a function term containing it.
//
// # Facts and rules
//
// A fact is a positive literal representing a piece of knowledge.
// A rule consists of a head, which is a positive literal, and a tail, which is a
// list of positive literals read as a conjunction implying the head.
// Facts and rules are kept in two ordered collections; their order determines the
// order of proof search.
//
// # Inference
//
// Proof search works backward from a goal. Facts are tried first, in knowledge-base
// order, and the first unifying fact wins; other matches are never retried. Rules are
// then tried in order, each with its variables standardized apart, and the first rule
// whose renamed tail can be proven settles the goal. The search is strictly
// depth-first, so it is incomplete: it can miss proofs that a full [SLD resolution]
// search would find, and a rule set that never reduces to facts recurses without
// bound unless a depth limit is configured on the [Resolver].
//
// [SLD resolution]: https://en.wikipedia.org/wiki/SLD_resolution
package backchain

import (
	"fmt"
	"strings"
)

// Term is a first-order logical term. It is one of [Constant], [Variable]
// and [*Function].
type Term interface {
	fmt.Stringer

	term()
}

// Constant is an atomic ground value. Two constants are equal iff their
// symbols are equal.
type Constant string

func (c Constant) term() {}

func (c Constant) String() string { return string(c) }

// Variable is a placeholder. It is meaningless outside a binding environment.
type Variable string

func (v Variable) term() {}

func (v Variable) String() string { return string(v) }

// Function is a compound term. Functor and arity together identify
// compatibility for unification.
type Function struct {
	Functor string
	Args    []Term
}

func (f *Function) term() {}

func (f *Function) String() string {
	var sb strings.Builder
	sb.WriteString(f.Functor)
	writeTerms(&sb, f.Args)
	return sb.String()
}

// Literal is a predicate symbol applied to a list of terms.
type Literal struct {
	Predicate string
	Args      []Term
}

func (l *Literal) String() string {
	var sb strings.Builder
	sb.WriteString(l.Predicate)
	writeTerms(&sb, l.Args)
	return sb.String()
}

// Bindings is an immutable variable-binding environment. The nil environment
// is empty. Every extension produces a fresh descendant sharing its parent's
// bindings, so the environments of sibling proof branches never interfere and
// abandoning a failed branch needs no rollback.
type Bindings struct {
	parent   *Bindings
	variable Variable
	term     Term
}

// Lookup returns the term the variable is directly bound to.
func (b *Bindings) Lookup(v Variable) (Term, bool) {
	for e := b; e != nil; e = e.parent {
		if e.variable == v {
			return e.term, true
		}
	}
	return nil, false
}

// Extend returns a new environment containing every binding of the receiver
// plus the new one. The receiver is untouched. The variable must not already
// be bound in the receiver.
func (b *Bindings) Extend(v Variable, t Term) *Bindings {
	if _, ok := b.Lookup(v); ok {
		panic("variable already bound: " + string(v))
	}
	return &Bindings{parent: b, variable: v, term: t}
}

// Resolve substitutes every variable occurrence in the term with its bound
// value, following bound-to-variable chains. Unbound variables are left
// untouched.
func (b *Bindings) Resolve(t Term) Term {
	switch x := t.(type) {
	case Constant:
		return x
	case Variable:
		if bound, ok := b.Lookup(x); ok {
			return b.Resolve(bound)
		}
		return x
	case *Function:
		args := make([]Term, len(x.Args))
		for i, arg := range x.Args {
			args[i] = b.Resolve(arg)
		}
		return &Function{Functor: x.Functor, Args: args}
	}
	panic("unknown kind of term")
}

func (b *Bindings) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	for e := b; e != nil; e = e.parent {
		if e != b {
			sb.WriteString(", ")
		}
		sb.WriteString(string(e.variable))
		sb.WriteRune('=')
		sb.WriteString(e.term.String())
	}
	sb.WriteRune('}')
	return sb.String()
}

// Unify computes a most general unifier of two terms under the given
// environment. On success it returns an environment extending env with any
// new bindings; env itself is never modified. The occurs check is always
// performed, so no variable ever ends up bound to a term containing it.
func Unify(t1, t2 Term, env *Bindings) (*Bindings, bool) {
	switch x := t1.(type) {
	case Constant:
		switch t2.(type) {
		case Constant:
			if t1 == t2 {
				return env, true
			}
			return nil, false
		case Variable:
			// Handle the variable as t1.
			return Unify(t2, t1, env)
		}
		return nil, false
	case Variable:
		if y, ok := t2.(Variable); ok && x == y {
			return env, true
		}
		if bound, ok := env.Lookup(x); ok {
			// Resolve the existing binding before comparing.
			return Unify(t2, bound, env)
		}
		switch y := t2.(type) {
		case Constant:
			return env.Extend(x, y), true
		case Variable:
			if bound, ok := env.Lookup(y); ok {
				return Unify(x, bound, env)
			}
			return env.Extend(x, y), true
		case *Function:
			if occurs(x, y, env) {
				return nil, false
			}
			return env.Extend(x, y), true
		}
		return nil, false
	case *Function:
		switch y := t2.(type) {
		case Variable:
			return Unify(t2, t1, env)
		case *Function:
			if x.Functor != y.Functor {
				return nil, false
			}
			return unifyLists(x.Args, y.Args, env)
		}
		return nil, false
	}
	return nil, false
}

// UnifyLiterals computes a most general unifier of two literals. Literals
// with distinct predicate symbols never unify; arity is enforced by the
// argument-list unification.
func UnifyLiterals(l1, l2 *Literal, env *Bindings) (*Bindings, bool) {
	if l1.Predicate != l2.Predicate {
		return nil, false
	}
	return unifyLists(l1.Args, l2.Args, env)
}

func unifyLists(l1, l2 []Term, env *Bindings) (*Bindings, bool) {
	if len(l1) == 0 && len(l2) == 0 {
		return env, true
	}
	if len(l1) == 0 || len(l2) == 0 {
		return nil, false
	}
	env, ok := Unify(l1[0], l2[0], env)
	if !ok {
		return nil, false
	}
	return unifyLists(l1[1:], l2[1:], env)
}

// occurs reports whether v is a free variable of t after substitution under env.
func occurs(v Variable, t Term, env *Bindings) bool {
	vars := make(map[Variable]struct{})
	freeVariables(env.Resolve(t), vars)
	_, ok := vars[v]
	return ok
}

func freeVariables(t Term, vars map[Variable]struct{}) {
	switch x := t.(type) {
	case Variable:
		vars[x] = struct{}{}
	case *Function:
		for _, arg := range x.Args {
			freeVariables(arg, vars)
		}
	}
}
