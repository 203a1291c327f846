// Package token tokenizes textual pass-pipeline descriptions.
package token

type Type int

const (
	Ident Type = iota
	Comma
	LParen
	RParen
	Options
	Illegal
)

func (t Type) String() string {
	switch t {
	case Ident:
		return "identifier"
	case Comma:
		return "','"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Options:
		return "options"
	case Illegal:
		return "illegal character"
	}
	return "unknown"
}

// Token is one lexical element. Pos is the byte offset of its first
// character in the source text, used in diagnostics.
type Token struct {
	Value string
	Type  Type
	Pos   int
}

func isIdentByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '.', c == '_', c == '-':
		return true
	}
	return false
}

// Tokenize splits a pipeline description into tokens. Malformed input
// surfaces as Illegal tokens; the parser turns those into diagnostics.
func Tokenize(input string) []Token {
	var tokens []Token

	for i := 0; i < len(input); i++ {
		c := input[i]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			continue

		case c == ',':
			tokens = append(tokens, Token{Type: Comma, Value: ",", Pos: i})

		case c == '(':
			tokens = append(tokens, Token{Type: LParen, Value: "(", Pos: i})

		case c == ')':
			tokens = append(tokens, Token{Type: RParen, Value: ")", Pos: i})

		case c == '{':
			end := i + 1
			for end < len(input) && input[end] != '}' {
				end++
			}
			if end == len(input) {
				tokens = append(tokens, Token{Type: Illegal, Value: input[i:], Pos: i})
				return tokens
			}
			tokens = append(tokens, Token{Type: Options, Value: input[i+1 : end], Pos: i})
			i = end

		case isIdentByte(c):
			end := i
			for end < len(input) && isIdentByte(input[end]) {
				end++
			}
			tokens = append(tokens, Token{Type: Ident, Value: input[i:end], Pos: i})
			i = end - 1

		default:
			tokens = append(tokens, Token{Type: Illegal, Value: string(c), Pos: i})
		}
	}

	return tokens
}
