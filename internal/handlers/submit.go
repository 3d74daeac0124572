package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/geocurator/internal/submission"
	appErrors "github.com/charlesng35/geocurator/pkg/errors"
	"github.com/charlesng35/geocurator/pkg/response"
)

// SubmitHandler accepts the page form post carrying the encoded working set.
type SubmitHandler struct {
	service *submission.Service
}

// NewSubmitHandler constructs a submit handler.
func NewSubmitHandler(service *submission.Service) *SubmitHandler {
	return &SubmitHandler{service: service}
}

// Submit reads the pubmed_ids form field and resolves it to datasets.
func (h *SubmitHandler) Submit(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	result, err := h.service.Submit(requestContext(c), c.PostForm("pubmed_ids"))
	if err != nil {
		response.Error(c, submitError(err))
		return
	}
	response.Success(c, http.StatusOK, result)
}
