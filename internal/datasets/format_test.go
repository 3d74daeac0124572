package datasets

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/charlesng35/geocurator/internal/models"
)

func strPtr(s string) *string { return &s }

func TestFormatDetailSinglePlatform(t *testing.T) {
	html, err := FormatDetail(models.Dataset{
		Summary:       "Bulk RNA-seq of liver",
		OverallDesign: "Three replicates",
		Platforms:     datatypes.JSONSlice[string]{"GPL24676"},
		ContactName:   "Jane Doe",
		ContactEmail:  "jane@example.org",
	})
	require.NoError(t, err)

	want := `<strong class="emphasized-field">Summary</strong>` +
		`<p>Bulk RNA-seq of liver</p>` +
		`<strong class="emphasized-field">Overall design</strong>` +
		`<p>Three replicates</p>` +
		`<strong>Platform:</strong> GPL24676<br/>` +
		`<strong>Contact:</strong> Jane Doe <a href="mailto:jane@example.org">jane@example.org</a><br/>`
	require.Equal(t, want, html)
}

func TestFormatDetailPluralPlatformsAndAnnotations(t *testing.T) {
	html, err := FormatDetail(models.Dataset{
		Platforms:            datatypes.JSONSlice[string]{"GPL1", "GPL2"},
		TissueStandardized:   datatypes.JSONSlice[*string]{strPtr("liver"), nil, strPtr("liver"), strPtr("kidney")},
		DiseaseStandardized:  datatypes.JSONSlice[*string]{nil, nil},
		CellTypeStandardized: datatypes.JSONSlice[*string]{strPtr("hepatocyte")},
		ContactName:          "Lab",
	})
	require.NoError(t, err)

	require.Contains(t, html, `<strong>Platforms:</strong> GPL1,GPL2<br/>`)
	require.Contains(t, html, `<strong>Tissue:</strong> liver, kidney<br/>`)
	require.Contains(t, html, `<strong>Cell type:</strong> hepatocyte<br/>`)
	require.NotContains(t, html, "Disease")
	require.Contains(t, html, `<strong>Contact:</strong> Lab<br/>`)
	require.NotContains(t, html, "mailto:")
}

func TestFormatDetailEscapesMarkup(t *testing.T) {
	html, err := FormatDetail(models.Dataset{
		Summary:     "<script>alert(1)</script>",
		ContactName: "A & B",
	})
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "&lt;script&gt;")
	require.Contains(t, html, "A &amp; B")
}

func TestDownloadsPairsParallelSequences(t *testing.T) {
	downloads := Downloads(models.Dataset{
		SupplementaryFiles: datatypes.JSONSlice[string]{
			"ftp://ftp.ncbi.nlm.nih.gov/geo/series/GSE1nnn/GSE1/suppl/GSE1_counts.txt.gz",
			"ftp://ftp.ncbi.nlm.nih.gov/geo/series/GSE1nnn/GSE1/suppl/GSE1_RAW.tar",
			"",
		},
		SupplementaryFilenames: datatypes.JSONSlice[string]{"counts.txt.gz"},
	})

	require.Equal(t, []Download{
		{URI: "ftp://ftp.ncbi.nlm.nih.gov/geo/series/GSE1nnn/GSE1/suppl/GSE1_counts.txt.gz", Filename: "counts.txt.gz"},
		{URI: "ftp://ftp.ncbi.nlm.nih.gov/geo/series/GSE1nnn/GSE1/suppl/GSE1_RAW.tar", Filename: "GSE1_RAW.tar"},
	}, downloads)
}

func TestDownloadsEmpty(t *testing.T) {
	require.Empty(t, Downloads(models.Dataset{SupplementaryFilenames: datatypes.JSONSlice[string]{"orphan"}}))
}
