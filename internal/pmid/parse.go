// Package pmid holds the PubMed ID working set: batch parsing, the ordered
// de-duplicated set itself and the encoding used for form submission.
package pmid

import (
	"strconv"
	"strings"
)

const (
	// TextDelimiter separates identifiers typed into the add field.
	TextDelimiter = ","
	// FileDelimiter separates identifiers in uploaded files.
	FileDelimiter = "\n"
)

// Parse reads a batch of identifiers separated by delimiter. The whole batch is
// rejected on the first token that is not a positive base-10 integer.
func Parse(text, delimiter string) ([]int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, emptyInput()
	}
	if delimiter == "" {
		delimiter = TextDelimiter
	}

	tokens := strings.Split(text, delimiter)
	ids := make([]int64, 0, len(tokens))
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		id, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseToken(token string) (int64, error) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidToken(token)
	}
	return id, nil
}
