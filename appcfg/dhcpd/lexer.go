package dhcpdconfig

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	errors "github.com/pkg/errors"
)

// Tokenizes the dhcpd configuration. The rules only need to recognize
// the structure of the file (blocks and statements). The statement
// contents are interpreted by the extractor.
var dhcpdLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments begin with "#" and run to the end of line.
	{Name: "Comment", Pattern: `#[^\n]*`},
	// Quoted strings may contain any character including braces.
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Punct", Pattern: `[{};,]`},
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
	// Anything else, e.g., keywords, addresses, numbers.
	{Name: "Word", Pattern: `[^\s{};,"#]+`},
})

type tokenKind int

const (
	wordToken tokenKind = iota
	stringToken
	punctToken
)

// A significant token with its position in the source text.
type token struct {
	kind  tokenKind
	value string
	pos   lexer.Position
}

// Checks if the token is the specified punctuation character.
func (t token) isPunct(value string) bool {
	return t.kind == punctToken && t.value == value
}

// Checks if the token is the specified keyword.
func (t token) isKeyword(value string) bool {
	return t.kind == wordToken && t.value == value
}

// Returns the token value with the quotes removed.
func (t token) unquoted() string {
	if t.kind == stringToken {
		return strings.TrimSuffix(strings.TrimPrefix(t.value, `"`), `"`)
	}
	return t.value
}

// Implemented by the lexer errors.
type positionedError interface {
	Position() lexer.Position
	Message() string
}

// Converts the configuration text into a list of significant tokens.
// Comments and whitespace are dropped.
func tokenize(filename, text string) ([]token, error) {
	lex, err := dhcpdLexer.LexString(filename, text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to tokenize %s", filename)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		var posErr positionedError
		if errors.As(err, &posErr) {
			return nil, newParseError(posErr.Position(), "%s", posErr.Message())
		}
		return nil, errors.Wrapf(err, "failed to tokenize %s", filename)
	}
	symbols := dhcpdLexer.Symbols()
	kinds := map[lexer.TokenType]tokenKind{
		symbols["Word"]:   wordToken,
		symbols["String"]: stringToken,
		symbols["Punct"]:  punctToken,
	}
	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() {
			break
		}
		kind, ok := kinds[t.Type]
		if !ok {
			continue
		}
		tokens = append(tokens, token{kind: kind, value: t.Value, pos: t.Pos})
	}
	return tokens, nil
}
