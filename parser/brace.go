package parser

import (
	"strconv"
	"strings"
)

// ExpandBraces rewrites each word token containing a {...} pair into one
// token per alternative: {a,b,c} splits on commas, {n..m} counts from n
// toward m. The body runs from the first { to the first } after it; braces
// are not matched by depth, so a nested { stays in the body as text and
// every comma in the body splits, nested or not. Operator tokens and tokens
// without braces pass through, and a token whose first } comes before its
// first { (or that lacks one of them) is left untouched. The quoted flag is
// preserved.
func ExpandBraces(tokens []Token) []Token {
	var result []Token
	for _, tok := range tokens {
		lbrace := strings.IndexByte(tok.Text, '{')
		rbrace := strings.IndexByte(tok.Text, '}')
		if lbrace < 0 || rbrace < 0 || rbrace < lbrace {
			result = append(result, tok)
			continue
		}

		before := tok.Text[:lbrace]
		inside := tok.Text[lbrace+1 : rbrace]
		after := tok.Text[rbrace+1:]

		if dots := strings.Index(inside, ".."); dots >= 0 {
			start, err1 := strconv.Atoi(inside[:dots])
			end, err2 := strconv.Atoi(inside[dots+2:])
			if err1 == nil && err2 == nil {
				step := 1
				if start > end {
					step = -1
				}
				for v := start; ; v += step {
					result = append(result, Token{
						Text:   before + strconv.Itoa(v) + after,
						Quoted: tok.Quoted,
					})
					if v == end {
						break
					}
				}
				continue
			}
		}

		for _, part := range strings.Split(inside, ",") {
			result = append(result, Token{Text: before + part + after, Quoted: tok.Quoted})
		}
	}
	return result
}
