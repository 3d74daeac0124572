package submission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/geocurator/internal/database/testutil"
	"github.com/charlesng35/geocurator/internal/datasets"
	"github.com/charlesng35/geocurator/internal/eutils"
	"github.com/charlesng35/geocurator/internal/pmid"
)

type stubLinker struct {
	uids []int64
	err  error
	got  []int64
}

func (s *stubLinker) LinkedGEOUIDs(_ context.Context, ids []int64) ([]int64, error) {
	s.got = ids
	return s.uids, s.err
}

func newStore(t *testing.T) *datasets.Service {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store, err := datasets.NewService(db)
	require.NoError(t, err)
	_, err = store.Import(context.Background(), strings.NewReader(`[
		{"id": "GSE100", "title": "Liver atlas", "pubmed_ids": [30530648]},
		{"id": "GSE200", "title": "Kidney injury", "pubmed_ids": [31820734]}
	]`))
	require.NoError(t, err)
	return store
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}

func TestSubmitResolvesThroughELink(t *testing.T) {
	linker := &stubLinker{uids: []int64{200000100, 200000777, 300000001, 42}}
	svc, err := NewService(newStore(t), linker)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), "[30530648,31820734]")
	require.NoError(t, err)
	require.Equal(t, []int64{30530648, 31820734}, linker.got)
	require.Equal(t, SourceELink, result.Source)
	require.Equal(t, []string{"GDS42", "GSE100", "GSE777"}, result.Accessions)
	require.Len(t, result.Datasets, 1)
	require.Equal(t, "GSE100", result.Datasets[0].ID)
	require.Equal(t, []string{"GDS42", "GSE777"}, result.Missing)
}

func TestSubmitFallsBackToStoredCitations(t *testing.T) {
	svc, err := NewService(newStore(t), nil)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), "[31820734]")
	require.NoError(t, err)
	require.Equal(t, SourceLocal, result.Source)
	require.Equal(t, []string{"GSE200"}, result.Accessions)
	require.Empty(t, result.Missing)
}

func TestSubmitRejectsEmptyAndMalformed(t *testing.T) {
	svc, err := NewService(newStore(t), nil)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "[]")
	require.True(t, errors.Is(err, pmid.ErrEmptyInput))

	_, err = svc.Submit(context.Background(), "[0]")
	require.True(t, errors.Is(err, pmid.ErrInvalidToken))
}

func TestSubmitWrapsLinkFailures(t *testing.T) {
	svc, err := NewService(newStore(t), &stubLinker{err: errors.New("connection refused")})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "[1]")
	require.ErrorIs(t, err, eutils.ErrUnavailable)
}
