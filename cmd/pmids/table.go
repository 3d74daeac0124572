package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/charlesng35/geocurator/internal/pmid"
)

const pubmedURL = "https://pubmed.ncbi.nlm.nih.gov/"

func renderWorkingSet(set pmid.WorkingSet) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "PubMed ID", "Link"})
	for i, id := range set.IDs() {
		value := strconv.FormatInt(id, 10)
		tw.AppendRow(table.Row{i + 1, value, pubmedURL + value + "/"})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
