package backchain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phomola/lrparser"
	"github.com/phomola/textkit"
)

var (
	grammar = lrparser.NewGrammar(lrparser.MustBuildRules([]*lrparser.SynSem{
		{Syn: `Init -> Stmts`, Sem: func(args []any) any { return args[0] }},
		{Syn: `Stmts -> Stmts Stmt`, Sem: func(args []any) any { return append(args[0].([]*ASTRule), args[1].(*ASTRule)) }},
		{Syn: `Stmts -> Stmt`, Sem: func(args []any) any { return []*ASTRule{args[0].(*ASTRule)} }},
		{Syn: `Stmt -> Literal "."`, Sem: func(args []any) any {
			return &ASTRule{Head: args[0].(*ASTLiteral)}
		}},
		{Syn: `Stmt -> Literal ":-" Literals "."`, Sem: func(args []any) any {
			return &ASTRule{Head: args[0].(*ASTLiteral), Tail: args[2].([]*ASTLiteral)}
		}},
		{Syn: `Literals -> Literals "," Literal`, Sem: func(args []any) any {
			return append(args[0].([]*ASTLiteral), args[2].(*ASTLiteral))
		}},
		{Syn: `Literals -> Literal`, Sem: func(args []any) any { return []*ASTLiteral{args[0].(*ASTLiteral)} }},
		{Syn: `Literal -> ident`, Sem: func(args []any) any {
			return &ASTLiteral{Predicate: args[0].(string)}
		}},
		{Syn: `Literal -> ident "(" Args ")"`, Sem: func(args []any) any {
			return &ASTLiteral{Predicate: args[0].(string), Args: args[2].([]ASTExpr)}
		}},
		{Syn: `Args -> Expr`, Sem: func(args []any) any { return []ASTExpr{args[0].(ASTExpr)} }},
		{Syn: `Args -> Expr "," Args`, Sem: func(args []any) any {
			return append([]ASTExpr{args[0].(ASTExpr)}, args[2].([]ASTExpr)...)
		}},
		{Syn: `Expr -> ident`, Sem: func(args []any) any { return &ASTIdent{Name: args[0].(string)} }},
		{Syn: `Expr -> string`, Sem: func(args []any) any { return &ASTString{Value: args[0].(string)} }},
		{Syn: `Expr -> integer`, Sem: func(args []any) any { return &ASTInteger{Value: args[0].(int)} }},
		{Syn: `Expr -> ident "(" Args ")"`, Sem: func(args []any) any {
			return &ASTTerm{Functor: args[0].(string), Args: args[2].([]ASTExpr)}
		}},
	}))
)

// AST is an abstract syntax tree.
type AST interface {
	fmt.Stringer
}

// ASTExpr is an expression node.
type ASTExpr interface {
	AST
}

// ASTRule is a rule node. A rule without a tail is a fact.
type ASTRule struct {
	Head *ASTLiteral
	Tail []*ASTLiteral
	Loc  textkit.Location
}

// Rule returns the rule for the node.
func (r *ASTRule) Rule() *Rule {
	tail := make([]*Literal, len(r.Tail))
	for i, l := range r.Tail {
		tail[i] = l.Literal()
	}
	return &Rule{Head: r.Head.Literal(), Tail: tail}
}

func (r *ASTRule) String() string {
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

// ASTLiteral is a literal node.
type ASTLiteral struct {
	Predicate string
	Args      []ASTExpr
	Loc       textkit.Location
}

// Literal returns the literal for the node. Identifiers starting with an
// upper-case letter become variables, everything else becomes a constant.
func (l *ASTLiteral) Literal() *Literal {
	args := make([]Term, len(l.Args))
	for i, arg := range l.Args {
		args[i] = exprTerm(arg)
	}
	return &Literal{Predicate: l.Predicate, Args: args}
}

func (l *ASTLiteral) String() string {
	var sb strings.Builder
	sb.WriteString(l.Predicate)
	if len(l.Args) > 0 {
		sb.WriteRune('(')
		for i, arg := range l.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteRune(')')
	}
	return sb.String()
}

func exprTerm(x ASTExpr) Term {
	switch x := x.(type) {
	case *ASTIdent:
		return termForSymbol(x.Name)
	case *ASTString:
		return Constant(x.Value)
	case *ASTInteger:
		return Constant(strconv.Itoa(x.Value))
	case *ASTTerm:
		args := make([]Term, len(x.Args))
		for i, arg := range x.Args {
			args[i] = exprTerm(arg)
		}
		return &Function{Functor: x.Functor, Args: args}
	default:
		panic(fmt.Sprintf("unhandled type of AST node: %T", x))
	}
}

// ASTTerm is a compound term node.
type ASTTerm struct {
	Functor string
	Args    []ASTExpr
	Loc     textkit.Location
}

func (t *ASTTerm) String() string {
	var sb strings.Builder
	sb.WriteString(t.Functor)
	if len(t.Args) > 0 {
		sb.WriteRune('(')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteRune(')')
	}
	return sb.String()
}

// ASTIdent is an identifier node.
type ASTIdent struct {
	Name string
	Loc  textkit.Location
}

func (i *ASTIdent) String() string { return i.Name }

// ASTString is a string node.
type ASTString struct {
	Value string
	Loc   textkit.Location
}

func (s *ASTString) String() string { return strconv.Quote(s.Value) }

// ASTInteger is an integer node.
type ASTInteger struct {
	Value int
	Loc   textkit.Location
}

func (i *ASTInteger) String() string { return strconv.Itoa(i.Value) }

// ParseKnowledgeBase creates a knowledge base by parsing source code.
// Statements without a tail are stored as facts, the rest as rules, in
// source order.
func ParseKnowledgeBase(code string) (*KnowledgeBase, error) {
	r, err := parseCode(code)
	if err != nil {
		return nil, err
	}
	stmts, ok := r.([]*ASTRule)
	if !ok {
		panic("unexpected type of parser output")
	}
	var (
		facts []*Literal
		rules []*Rule
	)
	for _, stmt := range stmts {
		if len(stmt.Tail) == 0 {
			facts = append(facts, stmt.Head.Literal())
		} else {
			rules = append(rules, stmt.Rule())
		}
	}
	return NewKnowledgeBase(facts, rules), nil
}

func parseCode(code string) (interface{}, error) {
	tok := textkit.Tokeniser{
		CommentPrefix: "#",
		StringRune:    '"',
		IdentChars:    "_",
	}
	tokens := tok.Tokenise(code, "")
	tokens = lrparser.CoalesceSymbols(tokens, []string{":-"})
	return grammar.Parse(tokens)
}
