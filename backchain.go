package backchain

import (
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mailstepcz/sexpr"
	"gopkg.in/yaml.v3"
)

// ErrIllFormed signifies a parse error.
var ErrIllFormed = errors.New("parse error")

// Rule is a Horn clause. The tail literals, read left to right as a
// conjunction, imply the head.
type Rule struct {
	Head *Literal
	Tail []*Literal
}

func (r *Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Head.String())
	for i, l := range r.Tail {
		if i == 0 {
			sb.WriteString(" :- ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(l.String())
	}
	sb.WriteRune('.')
	return sb.String()
}

// KnowledgeBase is an ordered collection of facts and an ordered collection
// of rules. The order is semantically significant: it determines proof-search
// order and, combined with the first-match policy of the [Resolver], which
// proofs can be found at all. A knowledge base is built once and read-only
// thereafter.
type KnowledgeBase struct {
	facts []*Literal
	rules []*Rule
}

// NewKnowledgeBase creates a knowledge base from the given facts and rules,
// preserving their order. The slices are copied; the caller may reuse them.
func NewKnowledgeBase(facts []*Literal, rules []*Rule) *KnowledgeBase {
	return &KnowledgeBase{facts: slices.Clone(facts), rules: slices.Clone(rules)}
}

// Facts returns a copy of the fact list in stored order.
func (kb *KnowledgeBase) Facts() []*Literal { return slices.Clone(kb.facts) }

// Rules returns a copy of the rule list in stored order.
func (kb *KnowledgeBase) Rules() []*Rule { return slices.Clone(kb.rules) }

// Resolver proves goals against a knowledge base by backward chaining.
// The knowledge base may be shared between resolvers, even across goroutines;
// a resolver itself must not be used concurrently because it carries the
// counter used for standardizing rule variables apart.
type Resolver struct {
	// KB is the knowledge base to prove goals against.
	KB *KnowledgeBase
	// MaxDepth bounds the rule-application depth of a proof. Branches
	// exceeding the bound fail. Zero means unbounded, in which case a rule
	// set whose expansion never reduces to facts recurses until the stack
	// is exhausted.
	MaxDepth int

	fresh int
}

// NewResolver creates a resolver with no depth bound.
func NewResolver(kb *KnowledgeBase) *Resolver {
	return &Resolver{KB: kb}
}

// Ask tries to prove the goal from empty bindings. It returns the binding
// environment of the first proof found, including bindings for intermediate
// variables, or reports failure.
func (r *Resolver) Ask(goal *Literal) (*Bindings, bool) {
	return r.AskWith(goal, nil)
}

// AskWith tries to prove the goal under the given bindings.
func (r *Resolver) AskWith(goal *Literal, env *Bindings) (*Bindings, bool) {
	return r.ask(goal, env, 0)
}

// AskAll tries to prove the conjunction of the goals, left to right, under
// the given bindings. A later goal sees the bindings produced for an earlier
// one; failure of a later goal does not retry alternatives for an earlier
// one, since none are retained.
func (r *Resolver) AskAll(goals []*Literal, env *Bindings) (*Bindings, bool) {
	return r.askAll(goals, env, 0)
}

// askFacts scans the facts in stored order and returns the unifier of the
// first fact the goal unifies with.
func (r *Resolver) askFacts(goal *Literal, env *Bindings) (*Bindings, bool) {
	for _, fact := range r.KB.facts {
		if env, ok := UnifyLiterals(goal, fact, env); ok {
			return env, true
		}
	}
	return nil, false
}

func (r *Resolver) ask(goal *Literal, env *Bindings, depth int) (*Bindings, bool) {
	if r.MaxDepth > 0 && depth > r.MaxDepth {
		return nil, false
	}
	// Facts take precedence over rules.
	if env, ok := r.askFacts(goal, env); ok {
		return env, true
	}
	for _, rule := range r.KB.rules {
		if rule.Head.Predicate != goal.Predicate {
			continue
		}
		rule = r.standardizeApart(rule)
		env, ok := UnifyLiterals(goal, rule.Head, env)
		if !ok {
			continue
		}
		if env, ok := r.askAll(rule.Tail, env, depth+1); ok {
			return env, true
		}
	}
	return nil, false
}

func (r *Resolver) askAll(goals []*Literal, env *Bindings, depth int) (*Bindings, bool) {
	if len(goals) == 0 {
		return env, true
	}
	env, ok := r.ask(goals[0], env, depth)
	if !ok {
		return nil, false
	}
	return r.askAll(goals[1:], env, depth)
}

// standardizeApart renames every variable of the rule, across head and tail,
// to a symbol disjoint from any variable already in play in the current
// proof, including variables introduced by earlier standardizations.
func (r *Resolver) standardizeApart(rule *Rule) *Rule {
	r.fresh++
	ren := renaming{names: make(map[Variable]Variable), n: r.fresh}
	tail := make([]*Literal, len(rule.Tail))
	for i, l := range rule.Tail {
		tail[i] = ren.literal(l)
	}
	return &Rule{Head: ren.literal(rule.Head), Tail: tail}
}

type renaming struct {
	names map[Variable]Variable
	n     int
}

func (r renaming) literal(l *Literal) *Literal {
	args := make([]Term, len(l.Args))
	for i, arg := range l.Args {
		args[i] = r.term(arg)
	}
	return &Literal{Predicate: l.Predicate, Args: args}
}

func (r renaming) term(t Term) Term {
	switch x := t.(type) {
	case Variable:
		v, ok := r.names[x]
		if !ok {
			// '#' cannot appear in source variables, so the renamed
			// symbol is fresh by construction.
			v = Variable(string(x) + "#" + strconv.Itoa(r.n))
			r.names[x] = v
		}
		return v
	case *Function:
		args := make([]Term, len(x.Args))
		for i, arg := range x.Args {
			args[i] = r.term(arg)
		}
		return &Function{Functor: x.Functor, Args: args}
	default:
		return t
	}
}

type source struct {
	Facts []fact `yaml:"facts"`
}

type fact struct {
	Predicate string   `yaml:"predicate"`
	Args      []string `yaml:"args"`
}

// FactsFromYAML loads a set of ground facts from a YAML reader. Every
// argument becomes a constant.
func FactsFromYAML(r io.Reader) ([]*Literal, error) {
	var source source
	if err := yaml.NewDecoder(r).Decode(&source); err != nil {
		return nil, err
	}
	facts := make([]*Literal, len(source.Facts))
	for i, f := range source.Facts {
		args := make([]Term, len(f.Args))
		for j, arg := range f.Args {
			args[j] = Constant(arg)
		}
		facts[i] = &Literal{Predicate: f.Predicate, Args: args}
	}
	return facts, nil
}

// ParseSymbolicExpression creates a knowledge base from a symbolic
// expression. Each clause is a list of literals, the head first; a clause
// with a single literal is a fact. Identifiers starting with an upper-case
// letter are variables.
func ParseSymbolicExpression(code string) (*KnowledgeBase, error) {
	expr, err := sexpr.Parse(code)
	if err != nil {
		return nil, err
	}
	var (
		facts []*Literal
		rules []*Rule
	)
	for _, clause := range expr {
		clause, ok := clause.([]interface{})
		if !ok {
			return nil, ErrIllFormed
		}
		if len(clause) == 0 {
			return nil, ErrIllFormed
		}
		if _, ok := clause[0].(sexpr.Identifier); ok {
			// comment form
			continue
		}
		head, err := exprToLiteral(clause[0])
		if err != nil {
			return nil, err
		}
		if len(clause) == 1 {
			facts = append(facts, head)
			continue
		}
		tail := make([]*Literal, 0, len(clause)-1)
		for _, ex := range clause[1:] {
			l, err := exprToLiteral(ex)
			if err != nil {
				return nil, err
			}
			tail = append(tail, l)
		}
		rules = append(rules, &Rule{Head: head, Tail: tail})
	}
	return NewKnowledgeBase(facts, rules), nil
}

func exprToLiteral(x interface{}) (*Literal, error) {
	expr, ok := x.([]interface{})
	if !ok || len(expr) == 0 {
		return nil, ErrIllFormed
	}
	functor, ok := expr[0].(sexpr.Identifier)
	if !ok {
		return nil, ErrIllFormed
	}
	args := make([]Term, 0, len(expr)-1)
	for _, arg := range expr[1:] {
		t, err := exprToTerm(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	return &Literal{Predicate: string(functor), Args: args}, nil
}

func exprToTerm(x interface{}) (Term, error) {
	switch x := x.(type) {
	case sexpr.Identifier:
		return termForSymbol(string(x)), nil
	case sexpr.QuotedString:
		return Constant(x), nil
	case []interface{}:
		if len(x) == 0 {
			return nil, ErrIllFormed
		}
		functor, ok := x[0].(sexpr.Identifier)
		if !ok {
			return nil, ErrIllFormed
		}
		args := make([]Term, 0, len(x)-1)
		for _, arg := range x[1:] {
			t, err := exprToTerm(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		return &Function{Functor: string(functor), Args: args}, nil
	}
	return nil, ErrIllFormed
}
