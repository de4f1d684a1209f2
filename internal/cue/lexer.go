package cue

import (
	"iter"
	"strings"
)

// Token is one argument of a command line.
type Token struct {
	// Text is the token with any surrounding quotes removed.
	Text string

	// Quoted reports whether the token was written between double quotes.
	Quoted bool
}

// Line is one non-blank line of a CUE sheet split into keyword and arguments.
type Line struct {
	// Number is the 1-based line number in the input.
	Number int

	// Keyword is the first token, uppercased.
	Keyword string

	// Args are the remaining tokens.
	Args []Token

	// Raw is the trimmed source line.
	Raw string
}

// Lex returns the logical lines of text.
//
// Blank and whitespace-only lines are skipped. Lines may end in "\n",
// "\r\n" or "\r". A double-quoted argument is one token even when it
// contains spaces; an unterminated quote yields an ErrLexical error and
// ends the sequence. With opts.QuoteEscapes, backslash escapes the next
// character inside quotes; otherwise backslashes are literal, which keeps
// Windows paths intact.
//
// The returned sequence is lazy and can be ranged over more than once;
// every iteration starts again from the first line.
//
// Example:
//
//	for line, err := range Lex(text, Options{}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(line.Number, line.Keyword, len(line.Args))
//	}
func Lex(text string, opts Options) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		text := strings.TrimPrefix(text, "\uFEFF")
		number := 0

		for len(text) > 0 {
			number++

			end := strings.IndexAny(text, "\r\n")
			var raw string
			if end < 0 {
				raw, text = text, ""
			} else {
				raw = text[:end]
				if text[end] == '\r' && end+1 < len(text) && text[end+1] == '\n' {
					text = text[end+2:]
				} else {
					text = text[end+1:]
				}
			}

			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			line := Line{Number: number, Raw: raw}
			tokens, err := tokenize(raw, opts.QuoteEscapes)
			if err != nil {
				yield(line, newError(ErrLexical, line, err.Error()))
				return
			}

			line.Keyword = strings.ToUpper(tokens[0].Text)
			line.Args = tokens[1:]
			if !yield(line, nil) {
				return
			}
		}
	}
}

// lexError is the detail of a tokenizer failure.
type lexError string

func (e lexError) Error() string { return string(e) }

// tokenize splits a trimmed, non-empty line into tokens.
func tokenize(s string, escapes bool) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(s); {
		if isSpace(s[i]) {
			i++
			continue
		}

		if s[i] != '"' {
			start := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			tokens = append(tokens, Token{Text: s[start:i]})
			continue
		}

		// Quoted token.
		var b strings.Builder
		closed := false
		for i++; i < len(s); i++ {
			c := s[i]
			if escapes && c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
				continue
			}
			if c == '"' {
				closed = true
				i++
				break
			}
			b.WriteByte(c)
		}
		if !closed {
			return nil, lexError("unterminated quote")
		}
		tokens = append(tokens, Token{Text: b.String(), Quoted: true})
	}

	return tokens, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

// joinTokens rejoins tokens with single spaces. A lone quoted token keeps
// its inner spacing.
func joinTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}
