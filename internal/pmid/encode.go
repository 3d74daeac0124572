package pmid

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Encode serialises the set as a JSON array of integers in row order, the value
// placed in the hidden pubmed_ids form field. An empty set cannot be submitted.
func Encode(set WorkingSet) (string, error) {
	if set.Empty() {
		return "", emptyInput()
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range set.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteByte(']')
	return b.String(), nil
}

// Decode reads a value produced by Encode. Anything other than a single JSON array
// of numbers fails with a Malformed ParseError. Repeated identifiers are collapsed so
// the result always satisfies the working set invariants.
func Decode(value string) ([]int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, emptyInput()
	}

	var raw []json.Number
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, malformed(err)
	}
	if rest := strings.TrimSpace(value[dec.InputOffset():]); rest != "" {
		return nil, malformed(errors.New("trailing data after array"))
	}
	if len(raw) == 0 {
		return nil, emptyInput()
	}

	ids := make([]int64, 0, len(raw))
	for _, n := range raw {
		id, err := parseToken(n.String())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return NewWorkingSet(ids...).IDs(), nil
}
