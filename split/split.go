// Package split provides the default sentence-splitter capability: turning
// raw free text into a surface word sequence when a record carries nothing
// pre-tokenized.
package split

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	"golang.org/x/text/unicode/norm"
)

// Words segments text into surface tokens along UAX#29 word boundaries.
// Punctuation comes out as its own token, whitespace is dropped, and text is
// NFC-normalized first so composed and decomposed inputs tokenize alike.
type Words struct{}

// Split implements document.Splitter.
func (Words) Split(text string) []string {
	var out []string
	tokens := words.FromString(norm.NFC.String(text))
	for tokens.Next() {
		token := tokens.Value()
		if strings.TrimSpace(token) == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}
