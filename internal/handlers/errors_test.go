package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/geocurator/internal/pmid"
	"github.com/charlesng35/geocurator/internal/workspace"
	appErrors "github.com/charlesng35/geocurator/pkg/errors"
)

func TestSubmitErrorMapsMalformedValuesToBadRequest(t *testing.T) {
	for _, value := range []string{"not json", "{}", "[1,2] trailing garbage"} {
		_, err := pmid.Decode(value)
		require.Error(t, err, value)

		var appErr *appErrors.AppError
		require.True(t, errors.As(submitError(err), &appErr), value)
		require.Equal(t, http.StatusBadRequest, appErr.StatusCode, value)
		require.Equal(t, codeMalformed, appErr.Code, value)
		require.Equal(t, workspace.MalformedMessage, appErr.Message, value)
	}
}

func TestSubmitErrorKeepsTokenAndEmptyMappings(t *testing.T) {
	_, err := pmid.Decode("[]")
	var appErr *appErrors.AppError
	require.True(t, errors.As(submitError(err), &appErr))
	require.Equal(t, codeEmptyInput, appErr.Code)
	require.Equal(t, workspace.SubmitEmptyFull, appErr.Detail)

	_, err = pmid.Decode("[4,0]")
	require.True(t, errors.As(submitError(err), &appErr))
	require.Equal(t, codeInvalidToken, appErr.Code)
	require.Equal(t, "0 is not a valid PubMed ID.", appErr.Message)
}

func TestBatchErrorNamesBlankEntries(t *testing.T) {
	_, err := pmid.Parse("1\n\n2", pmid.FileDelimiter)
	var appErr *appErrors.AppError
	require.True(t, errors.As(batchError(err), &appErr))
	require.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	require.Equal(t, workspace.EmptyTokenMessage, appErr.Message)
}
