package load

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError is returned for malformed declarations.
type SyntaxError struct {
	Pos string
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Pos == "" {
		return "tablegen: syntax error: " + e.Msg
	}
	return e.Pos + ": tablegen: syntax error: " + e.Msg
}

func syntaxErrorf(pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ParseTag parses the comma-separated options of a struct tag value.
func ParseTag(s, pos string) ([]*Option, error) {
	return parseOptions(s, pos, func(r rune) bool { return r == ',' })
}

// ParseDirective parses the space-separated options of a directive comment.
func ParseDirective(s, pos string) ([]*Option, error) {
	return parseOptions(s, pos, unicode.IsSpace)
}

type optionLexer struct {
	src   string
	pos   string
	i     int
	isSep func(rune) bool
}

func parseOptions(s, pos string, isSep func(rune) bool) ([]*Option, error) {
	l := &optionLexer{src: s, pos: pos, isSep: isSep}
	var opts []*Option
	for {
		l.skip(func(r rune) bool { return isSep(r) || unicode.IsSpace(r) })
		if l.done() {
			return opts, nil
		}
		o, err := l.option()
		if err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
}

func (l *optionLexer) done() bool { return l.i >= len(l.src) }

func (l *optionLexer) peek() byte { return l.src[l.i] }

func (l *optionLexer) skip(f func(rune) bool) {
	for !l.done() && f(rune(l.peek())) {
		l.i++
	}
}

func (l *optionLexer) option() (*Option, error) {
	o := &Option{Pos: l.pos}
	start := l.i
	l.skip(func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) })
	if l.i == start {
		return nil, syntaxErrorf(l.pos, "expected option name at %q", l.src[l.i:])
	}
	o.Key = l.src[start:l.i]
	if !l.done() && l.peek() == '=' {
		l.i++
		v, err := l.value()
		if err != nil {
			return nil, err
		}
		o.Value, o.HasValue = v, true
	}
	if !l.done() && l.peek() == '(' {
		arg, err := l.arg()
		if err != nil {
			return nil, err
		}
		if arg == "" {
			return nil, syntaxErrorf(l.pos, "empty argument type for %q", o.Key)
		}
		o.Arg = arg
	}
	l.skip(func(r rune) bool { return unicode.IsSpace(r) && !l.isSep(r) })
	if !l.done() && !l.isSep(rune(l.peek())) {
		return nil, syntaxErrorf(l.pos, "unexpected %q after option %q", l.src[l.i:], o.Key)
	}
	return o, nil
}

func (l *optionLexer) value() (string, error) {
	if !l.done() && l.peek() == '"' {
		end := l.i + 1
		for ; end < len(l.src); end++ {
			if l.src[end] == '\\' {
				end++
				continue
			}
			if l.src[end] == '"' {
				break
			}
		}
		if end >= len(l.src) {
			return "", syntaxErrorf(l.pos, "unterminated string %s", l.src[l.i:])
		}
		v, err := strconv.Unquote(l.src[l.i : end+1])
		if err != nil {
			return "", syntaxErrorf(l.pos, "invalid string %s: %v", l.src[l.i:end+1], err)
		}
		l.i = end + 1
		return v, nil
	}
	start := l.i
	l.skip(func(r rune) bool { return r != '(' && !l.isSep(r) && !unicode.IsSpace(r) })
	if l.i == start {
		return "", syntaxErrorf(l.pos, "missing value after %q", l.src[:start])
	}
	return l.src[start:l.i], nil
}

func (l *optionLexer) arg() (string, error) {
	depth := 0
	start := l.i + 1
	for ; l.i < len(l.src); l.i++ {
		switch l.src[l.i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				arg := strings.TrimSpace(l.src[start:l.i])
				l.i++
				return arg, nil
			}
		}
	}
	return "", syntaxErrorf(l.pos, "unbalanced parentheses in %q", l.src[start-1:])
}

// SplitArg splits "name(Arg)" into its value and argument parts. A value
// without parentheses is returned unchanged with an empty argument.
func SplitArg(s string) (value, arg string, err error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, "", nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", "", fmt.Errorf("unbalanced parentheses in %q", s)
	}
	return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : len(s)-1]), nil
}
