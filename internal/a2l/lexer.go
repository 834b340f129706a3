package a2l

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokBegin
	tokEnd
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokBegin:
		return "/begin"
	case tokEnd:
		return "/end"
	default:
		return "symbol"
	}
}

// token is one lexical unit. text holds the unescaped value for strings and the
// literal source text otherwise; start and end are byte offsets into the source.
type token struct {
	kind  tokenKind
	text  string
	line  int
	start int
	end   int
}

type lexer struct {
	src  string
	pos  int
	line int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1}
	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, line: l.line, start: l.pos, end: l.pos})
			return l.toks, nil
		}
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case strings.HasPrefix(l.src[l.pos:], "/*"):
			startLine := l.line
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				return &ParseError{Line: startLine, Msg: "unterminated block comment"}
			}
			body := l.src[l.pos : l.pos+2+end+2]
			l.line += strings.Count(body, "\n")
			l.pos += len(body)
		case strings.HasPrefix(l.src[l.pos:], "//"):
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
			} else {
				l.pos += end
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) scan() error {
	c := l.src[l.pos]
	switch {
	case c == '"':
		return l.scanString()
	case c == '/' && l.hasKeyword("/begin"):
		l.emit(tokBegin, l.pos+len("/begin"))
	case c == '/' && l.hasKeyword("/end"):
		l.emit(tokEnd, l.pos+len("/end"))
	case isIdentStart(c):
		end := l.pos + 1
		for end < len(l.src) && isIdentChar(l.src[end]) {
			end++
		}
		l.emit(tokIdent, end)
	case l.atNumber():
		l.emit(tokNumber, l.numberEnd())
	default:
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.emit(tokPunct, l.pos+size)
	}
	return nil
}

func (l *lexer) emit(kind tokenKind, end int) {
	l.toks = append(l.toks, token{kind: kind, text: l.src[l.pos:end], line: l.line, start: l.pos, end: end})
	l.pos = end
}

func (l *lexer) hasKeyword(kw string) bool {
	if !strings.HasPrefix(l.src[l.pos:], kw) {
		return false
	}
	next := l.pos + len(kw)
	return next >= len(l.src) || !isIdentChar(l.src[next])
}

func (l *lexer) scanString() error {
	start, startLine := l.pos, l.line
	var b strings.Builder
	i := l.pos + 1
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case c == '\\' && i+1 < len(l.src):
			switch n := l.src[i+1]; n {
			case '"', '\\':
				b.WriteByte(n)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(c)
				b.WriteByte(n)
			}
			if l.src[i+1] == '\n' {
				l.line++
			}
			i += 2
		case c == '"' && i+1 < len(l.src) && l.src[i+1] == '"':
			b.WriteByte('"')
			i += 2
		case c == '"':
			l.toks = append(l.toks, token{kind: tokString, text: b.String(), line: startLine, start: start, end: i + 1})
			l.pos = i + 1
			return nil
		default:
			if c == '\n' {
				l.line++
			}
			b.WriteByte(c)
			i++
		}
	}
	return &ParseError{Line: startLine, Msg: "unterminated string"}
}

func (l *lexer) atNumber() bool {
	i := l.pos
	if c := l.src[i]; c == '-' || c == '+' {
		i++
	}
	if i < len(l.src) && l.src[i] == '.' {
		i++
	}
	return i < len(l.src) && isDigit(l.src[i])
}

func (l *lexer) numberEnd() int {
	i := l.pos
	if c := l.src[i]; c == '-' || c == '+' {
		i++
	}
	if strings.HasPrefix(l.src[i:], "0x") || strings.HasPrefix(l.src[i:], "0X") {
		i += 2
		for i < len(l.src) && isHexDigit(l.src[i]) {
			i++
		}
		return i
	}
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i < len(l.src) && l.src[i] == '.' {
		i++
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		j := i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			for j < len(l.src) && isDigit(l.src[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.' || c == '[' || c == ']'
}

// ParseError reports a structural problem in A2L text.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return apperr.ErrParse }
