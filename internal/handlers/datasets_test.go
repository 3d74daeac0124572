package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/handlers/testutil"
	"github.com/charlesng35/geocurator/internal/models"
)

func TestDatasetList(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/datasets?per_page=1&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, 2, resp.Meta.Total)
	require.Equal(t, 2, resp.Meta.TotalPages)

	var rows []models.Dataset
	testutil.DecodeInto(t, resp.Data, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "GSE200", rows[0].ID)
}

func TestDatasetGetDetailDownloads(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/datasets/gse100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dataset models.Dataset
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &dataset)
	require.Equal(t, "Liver atlas", dataset.Title)
	require.Equal(t, []int64{30530648}, dataset.PubMedIDs)

	w = env.Request(http.MethodGet, "/api/datasets/GSE100/detail", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "Platforms")
	require.Contains(t, w.Body.String(), "GPL1,GPL2")
	require.Contains(t, w.Body.String(), "mailto:ada@example.org")

	w = env.Request(http.MethodGet, "/api/datasets/GSE100/downloads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var downloads []datasets.Download
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &downloads)
	require.Equal(t, []datasets.Download{{URI: "ftp://example.org/GSE100_RAW.tar", Filename: "GSE100_RAW.tar"}}, downloads)
}

func TestDatasetErrors(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/datasets/GSE999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.Request(http.MethodGet, "/api/datasets/GPL1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
