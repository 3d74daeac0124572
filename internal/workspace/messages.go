package workspace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charlesng35/geocurator/internal/pmid"
)

// User-facing texts shown inline and in toasts.
const (
	EmptyInputMessage  = "Please enter a PubMed ID."
	EmptyTokenMessage  = "The list contains an empty entry. Remove blank lines and repeated commas."
	MalformedMessage   = "The submitted PubMed IDs could not be read."
	SubmitEmptyShort   = "PubMed IDs have not been entered"
	SubmitEmptyFull    = "No PubMed IDs have been entered. Please enter or import PubMed IDs."
	importSuccessShort = "Import successful"
)

// InvalidTokenMessage is the inline error for a rejected token. A blank token
// comes from an empty line or a doubled delimiter and has its own wording.
func InvalidTokenMessage(token string) string {
	if strings.TrimSpace(token) == "" {
		return EmptyTokenMessage
	}
	return fmt.Sprintf("%s is not a valid PubMed ID.", token)
}

// ImportSuccessMessage is the toast text after a file import.
func ImportSuccessMessage(count int, filename string) string {
	return fmt.Sprintf("Successfully imported %d PubMed IDs from %s.", count, filename)
}

// UserMessage maps a batch error to the inline text shown next to the input.
func UserMessage(err error) string {
	if pe, ok := pmid.AsParseError(err); ok {
		switch pe.Kind {
		case pmid.InvalidToken:
			return InvalidTokenMessage(pe.Token)
		case pmid.Malformed:
			return MalformedMessage
		}
	}
	if errors.Is(err, ErrFileTooLarge) {
		return "The selected file is too large."
	}
	return EmptyInputMessage
}
