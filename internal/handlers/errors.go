package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/eutils"
	"github.com/charlesng35/geocurator/internal/pmid"
	"github.com/charlesng35/geocurator/internal/workspace"
	appErrors "github.com/charlesng35/geocurator/pkg/errors"
)

// Error codes for rejected identifier batches.
const (
	codeEmptyInput   = "EMPTY_INPUT"
	codeInvalidToken = "INVALID_TOKEN"
	codeMalformed    = "MALFORMED_SUBMISSION"
)

// batchError maps errors from adding ids to the inline message shown under the input.
func batchError(err error) error {
	if pe, ok := pmid.AsParseError(err); ok {
		if pe.Kind == pmid.InvalidToken {
			return appErrors.New(codeInvalidToken, workspace.InvalidTokenMessage(pe.Token), http.StatusBadRequest)
		}
		return appErrors.New(codeEmptyInput, workspace.EmptyInputMessage, http.StatusBadRequest)
	}
	return commonError(err)
}

// submitError maps errors from encoding or resolving a submission.
func submitError(err error) error {
	if errors.Is(err, pmid.ErrEmptyInput) {
		return appErrors.New(codeEmptyInput, workspace.SubmitEmptyShort, http.StatusBadRequest).
			WithDetail(workspace.SubmitEmptyFull)
	}
	if errors.Is(err, pmid.ErrMalformed) {
		return appErrors.New(codeMalformed, workspace.MalformedMessage, http.StatusBadRequest).WithInternal(err)
	}
	if pe, ok := pmid.AsParseError(err); ok {
		return appErrors.New(codeInvalidToken, workspace.InvalidTokenMessage(pe.Token), http.StatusBadRequest)
	}
	return commonError(err)
}

func commonError(err error) error {
	switch {
	case errors.Is(err, workspace.ErrFileTooLarge):
		return appErrors.ErrPayloadTooLarge.WithInternal(err)
	case errors.Is(err, eutils.ErrUnavailable):
		return appErrors.ErrUpstreamUnavailable.WithInternal(err)
	case errors.Is(err, datasets.ErrDatasetNotFound):
		return appErrors.ErrNotFound.WithInternal(err)
	case errors.Is(err, context.Canceled):
		return appErrors.NewBadRequest("request cancelled")
	}
	return appErrors.FromError(err)
}
