package datasets

import (
	"bytes"
	"html/template"
	"path"
	"strings"

	"github.com/charlesng35/geocurator/internal/models"
)

var detailTemplate = template.Must(template.New("detail").Parse(
	`<strong class="emphasized-field">Summary</strong>` +
		`<p>{{.Summary}}</p>` +
		`<strong class="emphasized-field">Overall design</strong>` +
		`<p>{{.OverallDesign}}</p>` +
		`<strong>{{.PlatformLabel}}:</strong> {{.Platforms}}<br/>` +
		`{{range .Annotations}}<strong>{{.Label}}:</strong> {{.Values}}<br/>{{end}}` +
		`<strong>Contact:</strong> {{.ContactName}}` +
		`{{if .ContactEmail}} <a href="mailto:{{.ContactEmail}}">{{.ContactEmail}}</a>{{end}}<br/>`,
))

type detailView struct {
	Summary       string
	OverallDesign string
	PlatformLabel string
	Platforms     string
	Annotations   []annotationView
	ContactName   string
	ContactEmail  string
}

type annotationView struct {
	Label  string
	Values string
}

// FormatDetail renders the expandable row detail for a dataset. Every value is
// HTML-escaped; standardized annotations appear only when they hold a value.
func FormatDetail(d models.Dataset) (string, error) {
	view := detailView{
		Summary:       d.Summary,
		OverallDesign: d.OverallDesign,
		PlatformLabel: "Platform",
		Platforms:     strings.Join(d.Platforms, ","),
		ContactName:   d.ContactName,
		ContactEmail:  d.ContactEmail,
	}
	if len(d.Platforms) > 1 {
		view.PlatformLabel = "Platforms"
	}

	for _, a := range []struct {
		label  string
		values []*string
	}{
		{"Tissue", d.TissueStandardized},
		{"Disease", d.DiseaseStandardized},
		{"Cell type", d.CellTypeStandardized},
	} {
		if values := distinctValues(a.values); len(values) > 0 {
			view.Annotations = append(view.Annotations, annotationView{
				Label:  a.label,
				Values: strings.Join(values, ", "),
			})
		}
	}

	var buf bytes.Buffer
	if err := detailTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func distinctValues(values []*string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Download is one supplementary file the browser should fetch.
type Download struct {
	URI      string `json:"uri"`
	Filename string `json:"filename"`
}

// Downloads pairs supplementary file URIs with their filenames. URIs without a
// filename fall back to the last path segment; filenames without a URI are ignored.
func Downloads(d models.Dataset) []Download {
	out := make([]Download, 0, len(d.SupplementaryFiles))
	for i, uri := range d.SupplementaryFiles {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			continue
		}
		name := ""
		if i < len(d.SupplementaryFilenames) {
			name = strings.TrimSpace(d.SupplementaryFilenames[i])
		}
		if name == "" {
			name = path.Base(strings.TrimRight(uri, "/"))
		}
		out = append(out, Download{URI: uri, Filename: name})
	}
	return out
}
