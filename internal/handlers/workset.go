package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/geocurator/internal/middleware"
	"github.com/charlesng35/geocurator/internal/realtime"
	"github.com/charlesng35/geocurator/internal/submission"
	"github.com/charlesng35/geocurator/internal/workspace"
	appErrors "github.com/charlesng35/geocurator/pkg/errors"
	"github.com/charlesng35/geocurator/pkg/response"
)

// multipartOverhead allows for boundaries and part headers around the uploaded file.
const multipartOverhead = 64 << 10

// WorksetHandler exposes the session's PubMed ID working set.
type WorksetHandler struct {
	hub       *realtime.Hub
	submit    *submission.Service
	maxUpload int64
}

// NewWorksetHandler constructs a working set handler.
func NewWorksetHandler(hub *realtime.Hub, submit *submission.Service, maxUpload int64) *WorksetHandler {
	return &WorksetHandler{hub: hub, submit: submit, maxUpload: maxUpload}
}

type addIDsRequest struct {
	Text string `json:"text" validate:"max=1048576"`
}

type encodeResponse struct {
	PubMedIDs string `json:"pubmed_ids"`
}

// List returns the ids in row order.
func (h *WorksetHandler) List(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ids": ctrl.Snapshot().IDs()})
}

// Add parses comma separated ids from the text field.
func (h *WorksetHandler) Add(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	var req addIDsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	change, err := ctrl.AddText(req.Text)
	if err != nil {
		response.Error(c, batchError(err))
		return
	}
	response.Success(c, http.StatusOK, change)
}

// Upload imports newline separated ids from the multipart "file" field.
func (h *WorksetHandler) Upload(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartOverhead)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrPayloadTooLarge.WithInternal(err))
			return
		}
		response.Error(c, appErrors.NewBadRequest("file is required"))
		return
	}
	if header.Size > h.maxUpload {
		response.Error(c, appErrors.ErrPayloadTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "failed to read upload"))
		return
	}
	defer file.Close()

	change, err := ctrl.AddFile(requestContext(c), filepath.Base(header.Filename), file, h.maxUpload)
	if err != nil {
		response.Error(c, batchError(err))
		return
	}
	response.Success(c, http.StatusOK, change)
}

// Remove drops the id named in the path. Unknown ids succeed with no change.
func (h *WorksetHandler) Remove(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.NewBadRequest(workspace.InvalidTokenMessage(c.Param("id"))))
		return
	}
	response.Success(c, http.StatusOK, ctrl.Remove(id))
}

// Clear empties the working set.
func (h *WorksetHandler) Clear(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, ctrl.Clear())
}

// Encode returns the value for the hidden pubmed_ids form field.
func (h *WorksetHandler) Encode(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	encoded, err := ctrl.Encode()
	if err != nil {
		response.Error(c, submitError(err))
		return
	}
	response.Success(c, http.StatusOK, encodeResponse{PubMedIDs: encoded})
}

// Submit encodes the session's set and resolves it to datasets.
func (h *WorksetHandler) Submit(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if h.submit == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	encoded, err := ctrl.Encode()
	if err != nil {
		response.Error(c, submitError(err))
		return
	}
	result, err := h.submit.Submit(requestContext(c), encoded)
	if err != nil {
		response.Error(c, submitError(err))
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Events upgrades to the session's event socket.
func (h *WorksetHandler) Events(c *gin.Context) {
	if h.hub == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	h.hub.Serve(ctrl.ID(), c.Writer, c.Request)
}

func (h *WorksetHandler) controller(c *gin.Context) (*workspace.Controller, bool) {
	ctrl, ok := middleware.WorkspaceFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrInternalServer.WithDetail("session middleware not installed"))
		return nil, false
	}
	return ctrl, true
}
