// Package datasets serves the GEO dataset table: storage, lookups by PubMed
// citation, seed import and the row detail and download helpers.
package datasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/geocurator/internal/models"
	"github.com/charlesng35/geocurator/pkg/logger"
	appValidator "github.com/charlesng35/geocurator/pkg/validator"
)

var (
	// ErrDatasetNotFound indicates the requested accession is not stored.
	ErrDatasetNotFound = errors.New("dataset service: dataset not found")
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

// Service reads and writes dataset table rows.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewService constructs a dataset service once a database handle is supplied.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("dataset service: db is required")
	}
	return &Service{db: db, log: logger.WithModule("datasets")}, nil
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// ListOptions filters and pages the dataset table.
type ListOptions struct {
	Search  string
	Page    int
	PerPage int
}

// ListResult is one page of the dataset table.
type ListResult struct {
	Datasets []models.Dataset
	Total    int64
	Page     int
	PerPage  int
}

// List returns datasets ordered by accession. Search matches accession, title or summary.
func (s *Service) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	ctx = ensuredContext(ctx)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	switch {
	case perPage <= 0:
		perPage = defaultPerPage
	case perPage > maxPerPage:
		perPage = maxPerPage
	}

	query := s.db.WithContext(ctx).Model(&models.Dataset{})
	if term := strings.ToLower(strings.TrimSpace(opts.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(id) LIKE ? OR LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ListResult{}, fmt.Errorf("dataset service: count: %w", err)
	}

	var rows []models.Dataset
	if err := query.Preload("PubMedLinks").
		Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error; err != nil {
		return ListResult{}, fmt.Errorf("dataset service: list: %w", err)
	}
	for i := range rows {
		fillPubMedIDs(&rows[i])
	}

	return ListResult{Datasets: rows, Total: total, Page: page, PerPage: perPage}, nil
}

// Get loads a single dataset by accession.
func (s *Service) Get(ctx context.Context, id string) (*models.Dataset, error) {
	ctx = ensuredContext(ctx)

	var dataset models.Dataset
	err := s.db.WithContext(ctx).Preload("PubMedLinks").
		Take(&dataset, "id = ?", strings.ToUpper(strings.TrimSpace(id))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dataset service: get: %w", err)
	}
	fillPubMedIDs(&dataset)
	return &dataset, nil
}

// ByAccessions loads the stored datasets among ids, ordered by accession.
func (s *Service) ByAccessions(ctx context.Context, ids []string) ([]models.Dataset, error) {
	if len(ids) == 0 {
		return []models.Dataset{}, nil
	}
	ctx = ensuredContext(ctx)

	var rows []models.Dataset
	if err := s.db.WithContext(ctx).Preload("PubMedLinks").
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dataset service: by accessions: %w", err)
	}
	for i := range rows {
		fillPubMedIDs(&rows[i])
	}
	return rows, nil
}

// AccessionsForPubMedIDs returns the stored accessions cited by any of pubmedIDs.
func (s *Service) AccessionsForPubMedIDs(ctx context.Context, pubmedIDs []int64) ([]string, error) {
	if len(pubmedIDs) == 0 {
		return []string{}, nil
	}
	ctx = ensuredContext(ctx)

	var accessions []string
	if err := s.db.WithContext(ctx).Model(&models.DatasetPubMed{}).
		Distinct("dataset_id").
		Where("pub_med_id IN ?", pubmedIDs).
		Order("dataset_id").
		Pluck("dataset_id", &accessions).Error; err != nil {
		return nil, fmt.Errorf("dataset service: accessions for pubmed ids: %w", err)
	}
	return accessions, nil
}

// Upsert validates and stores datasets, replacing their PubMed links.
func (s *Service) Upsert(ctx context.Context, datasets []models.Dataset) (int, error) {
	ctx = ensuredContext(ctx)

	for i := range datasets {
		datasets[i].Normalise()
		if err := appValidator.ValidateStruct(datasets[i]); err != nil {
			return 0, fmt.Errorf("dataset service: dataset %d (%s): %w", i, datasets[i].ID, err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range datasets {
			d := datasets[i]
			d.PubMedLinks = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&d).Error; err != nil {
				return err
			}
			if err := tx.Where("dataset_id = ?", d.ID).Delete(&models.DatasetPubMed{}).Error; err != nil {
				return err
			}
			links := linksFor(d)
			if len(links) == 0 {
				continue
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("dataset service: upsert: %w", err)
	}
	return len(datasets), nil
}

// Import reads a JSON array of datasets and upserts them.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	var payload []models.Dataset
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return 0, fmt.Errorf("dataset service: decode import: %w", err)
	}
	count, err := s.Upsert(ctx, payload)
	if err != nil {
		return 0, err
	}
	s.log.Info("datasets imported", zap.Int("count", count))
	return count, nil
}

func linksFor(d models.Dataset) []models.DatasetPubMed {
	seen := make(map[int64]struct{}, len(d.PubMedIDs))
	links := make([]models.DatasetPubMed, 0, len(d.PubMedIDs))
	for _, id := range d.PubMedIDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, models.DatasetPubMed{DatasetID: d.ID, PubMedID: id})
	}
	return links
}

func fillPubMedIDs(d *models.Dataset) {
	if len(d.PubMedLinks) == 0 {
		return
	}
	d.PubMedIDs = make([]int64, 0, len(d.PubMedLinks))
	for _, link := range d.PubMedLinks {
		d.PubMedIDs = append(d.PubMedIDs, link.PubMedID)
	}
}
