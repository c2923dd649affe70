package backchain

import "strings"

func atomIsVar(s string) bool {
	if len(s) > 0 {
		return s[:1] == strings.ToUpper(s[:1])
	}
	return false
}

func termForSymbol(s string) Term {
	if atomIsVar(s) {
		return Variable(s)
	}
	return Constant(s)
}

func writeTerms(sb *strings.Builder, args []Term) {
	if len(args) == 0 {
		return
	}
	sb.WriteRune('(')
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteRune(')')
}
