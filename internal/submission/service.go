// Package submission resolves a submitted PubMed ID list to the GEO datasets citing it.
package submission

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/charlesng35/geocurator/internal/eutils"
	"github.com/charlesng35/geocurator/internal/models"
	"github.com/charlesng35/geocurator/internal/pmid"
	"github.com/charlesng35/geocurator/pkg/logger"
	"github.com/charlesng35/geocurator/pkg/metrics"
)

// Linker resolves PubMed IDs to gds UIDs. *eutils.Client satisfies it.
type Linker interface {
	LinkedGEOUIDs(ctx context.Context, pubmedIDs []int64) ([]int64, error)
}

// DatasetStore is the slice of the dataset service used here.
type DatasetStore interface {
	ByAccessions(ctx context.Context, ids []string) ([]models.Dataset, error)
	AccessionsForPubMedIDs(ctx context.Context, pubmedIDs []int64) ([]string, error)
}

// Result lists what a submission resolved to. Missing holds linked accessions that
// are not stored locally.
type Result struct {
	PubMedIDs  []int64          `json:"pubmed_ids"`
	Accessions []string         `json:"accessions"`
	Datasets   []models.Dataset `json:"datasets"`
	Missing    []string         `json:"missing"`
	Source     string           `json:"source"`
}

// Resolution sources.
const (
	SourceELink = "elink"
	SourceLocal = "local"
)

// Service resolves submissions. A nil linker selects the stored-citation lookup.
type Service struct {
	linker Linker
	store  DatasetStore
	log    *zap.Logger
}

// NewService constructs a submission service.
func NewService(store DatasetStore, linker Linker) (*Service, error) {
	if store == nil {
		return nil, errors.New("submission service: dataset store is required")
	}
	return &Service{linker: linker, store: store, log: logger.WithModule("submission")}, nil
}

// Submit decodes the encoded form value and resolves it.
func (s *Service) Submit(ctx context.Context, encoded string) (Result, error) {
	ids, err := pmid.Decode(encoded)
	if err != nil {
		if errors.Is(err, pmid.ErrEmptyInput) {
			metrics.Submissions.WithLabelValues("empty").Inc()
		} else {
			metrics.Submissions.WithLabelValues("error").Inc()
		}
		return Result{}, err
	}
	return s.Resolve(ctx, ids)
}

// Resolve finds the datasets linked to ids.
func (s *Service) Resolve(ctx context.Context, ids []int64) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := Result{PubMedIDs: ids, Source: SourceLocal}
	var err error
	if s.linker != nil {
		result.Source = SourceELink
		result.Accessions, err = s.linkedAccessions(ctx, ids)
	} else {
		result.Accessions, err = s.store.AccessionsForPubMedIDs(ctx, ids)
	}
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		return Result{}, err
	}

	result.Datasets, err = s.store.ByAccessions(ctx, result.Accessions)
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("submission service: load datasets: %w", err)
	}

	stored := make(map[string]struct{}, len(result.Datasets))
	for _, d := range result.Datasets {
		stored[d.ID] = struct{}{}
	}
	result.Missing = []string{}
	for _, accession := range result.Accessions {
		if _, ok := stored[accession]; !ok {
			result.Missing = append(result.Missing, accession)
		}
	}

	metrics.Submissions.WithLabelValues("success").Inc()
	s.log.Info("submission resolved",
		zap.String("source", result.Source),
		zap.Int("pubmed_ids", len(ids)),
		zap.Int("accessions", len(result.Accessions)),
		zap.Int("missing", len(result.Missing)),
	)
	return result, nil
}

func (s *Service) linkedAccessions(ctx context.Context, ids []int64) ([]string, error) {
	uids, err := s.linker.LinkedGEOUIDs(ctx, ids)
	if err != nil {
		s.log.Warn("elink lookup failed", zap.Error(err))
		if errors.Is(err, eutils.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", eutils.ErrUnavailable, err)
	}

	accessions := make([]string, 0, len(uids))
	for _, uid := range uids {
		if accession, ok := eutils.AccessionForUID(uid); ok {
			accessions = append(accessions, accession)
		}
	}
	slices.Sort(accessions)
	return slices.Compact(accessions), nil
}
