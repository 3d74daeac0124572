package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Dataset is one GEO series row in the dataset table.
type Dataset struct {
	ID             string                      `gorm:"primaryKey;type:varchar(32)" json:"id" validate:"required,geo_accession"`
	Title          string                      `gorm:"type:text;not null" json:"title" validate:"required"`
	Organisms      datatypes.JSONSlice[string] `json:"organisms"`
	ExperimentType string                      `gorm:"type:varchar(255)" json:"experiment_type"`
	SampleCount    int                         `json:"sample_count" validate:"gte=0"`
	Summary        string                      `gorm:"type:text" json:"summary"`
	OverallDesign  string                      `gorm:"type:text" json:"overall_design"`
	Platforms      datatypes.JSONSlice[string] `json:"platforms"`
	ContactName    string                      `gorm:"type:varchar(255)" json:"contact_name"`
	ContactEmail   string                      `gorm:"type:varchar(255)" json:"contact_email" validate:"omitempty,email"`

	// Standardized annotations may hold nulls where a sample had no match.
	TissueStandardized   datatypes.JSONSlice[*string] `json:"tissue_standardized,omitempty"`
	DiseaseStandardized  datatypes.JSONSlice[*string] `json:"disease_standardized,omitempty"`
	CellTypeStandardized datatypes.JSONSlice[*string] `json:"cell_type_standardized,omitempty"`

	SupplementaryFiles     datatypes.JSONSlice[string] `json:"supplementary_files"`
	SupplementaryFilenames datatypes.JSONSlice[string] `json:"supplementary_filenames"`

	PubMedLinks []DatasetPubMed `gorm:"foreignKey:DatasetID;constraint:OnDelete:CASCADE" json:"-"`
	PubMedIDs   []int64         `gorm:"-" json:"pubmed_ids,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalise trims identifying fields and upper-cases the accession.
func (d *Dataset) Normalise() {
	d.ID = strings.ToUpper(strings.TrimSpace(d.ID))
	d.Title = strings.TrimSpace(d.Title)
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
}

// IsSuperSeries reports whether the dataset only groups other series; its summary
// carries no description of its own.
func (d *Dataset) IsSuperSeries() bool {
	return strings.TrimSpace(d.Summary) == SuperSeriesSummary
}

// SuperSeriesSummary is the fixed summary GEO assigns to SuperSeries.
const SuperSeriesSummary = "This SuperSeries is composed of the SubSeries listed below."

// DatasetPubMed links a dataset to a PubMed article that cites it.
type DatasetPubMed struct {
	DatasetID string `gorm:"primaryKey;type:varchar(32)"`
	PubMedID  int64  `gorm:"primaryKey;autoIncrement:false;index"`
}
