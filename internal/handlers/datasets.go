package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/models"
	appErrors "github.com/charlesng35/geocurator/pkg/errors"
	"github.com/charlesng35/geocurator/pkg/response"
	appValidator "github.com/charlesng35/geocurator/pkg/validator"
)

// DatasetHandler serves the dataset table and its row helpers.
type DatasetHandler struct {
	service *datasets.Service
}

// NewDatasetHandler constructs a dataset handler.
func NewDatasetHandler(service *datasets.Service) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// List returns one page of the table.
func (h *DatasetHandler) List(c *gin.Context) {
	result, err := h.service.List(requestContext(c), datasets.ListOptions{
		Search:  strings.TrimSpace(c.Query("search")),
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", 0),
	})
	if err != nil {
		response.Error(c, commonError(err))
		return
	}

	totalPages := 0
	if result.PerPage > 0 {
		totalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}
	response.SuccessWithMeta(c, http.StatusOK, result.Datasets, &response.Meta{
		Page:       result.Page,
		PerPage:    result.PerPage,
		Total:      int(result.Total),
		TotalPages: totalPages,
	})
}

// Get returns one dataset row.
func (h *DatasetHandler) Get(c *gin.Context) {
	dataset, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, dataset)
}

// Detail renders the expandable row detail as an HTML fragment.
func (h *DatasetHandler) Detail(c *gin.Context) {
	dataset, ok := h.load(c)
	if !ok {
		return
	}
	fragment, err := datasets.FormatDetail(*dataset)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, "failed to render dataset detail"))
		return
	}
	response.HTML(c, http.StatusOK, fragment)
}

// Downloads lists the supplementary files for the row's download button.
func (h *DatasetHandler) Downloads(c *gin.Context) {
	dataset, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, datasets.Downloads(*dataset))
}

func (h *DatasetHandler) load(c *gin.Context) (*models.Dataset, bool) {
	id := strings.ToUpper(strings.TrimSpace(c.Param("id")))
	if !appValidator.IsGEOAccession(id) {
		response.Error(c, appErrors.NewBadRequest("id must be a GEO series or dataset accession"))
		return nil, false
	}
	dataset, err := h.service.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, commonError(err))
		return nil, false
	}
	return dataset, true
}
