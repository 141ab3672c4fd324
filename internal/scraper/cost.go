package scraper

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/movewise/internal/record"
)

// CostTable is the cost-of-living table as published, one header-keyed row per line.
type CostTable struct {
	Headers []string
	Rows    []record.CostRow
}

// Records returns the table as CSV records, header first. Cells missing from a
// short row are written empty.
func (t *CostTable) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Headers...))
	for _, row := range t.Rows {
		rec := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			rec[i] = row[h]
		}
		out = append(out, rec)
	}
	return out
}

// parseCostOfLiving extracts the table inside div.table-responsive, falling
// back to the first table on the page.
func parseCostOfLiving(doc *goquery.Document) (*CostTable, error) {
	table := doc.Find("div.table-responsive table").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("cost of living: %w (div.table-responsive table)", ErrTableNotFound)
	}

	trs := table.Find("tr")
	headers := cellText(table, "th")
	if trs.Length() == 0 || len(headers) == 0 {
		return nil, fmt.Errorf("cost of living: %w (no header cells)", ErrTableNotFound)
	}

	t := &CostTable{Headers: headers}
	trs.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := cellText(tr, "td")
		if len(cells) == 0 {
			return
		}
		row := make(record.CostRow, len(cells))
		for i, c := range cells {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = c
		}
		t.Rows = append(t.Rows, row)
	})

	return t, nil
}
