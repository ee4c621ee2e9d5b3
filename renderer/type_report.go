package renderer

import (
	"fmt"

	"github.com/globalfolio/folio"
)

// Report is the renderable view of a portfolio valuation.
type Report struct {
	Currency   string
	Categories []Category
	Notices    []string
	Total      string
}

// Category is the renderable view of one asset category.
type Category struct {
	Name        string
	Currency    string
	Rows        []Row
	Skips       []string
	Total       string
	Unavailable string // non-empty when the whole category was skipped
}

// Row is one valued holding, formatted.
type Row struct {
	ID          string
	Quantity    string
	Price       string // in the quote currency
	MarketValue string // in the reporting currency
	Return      string // "-" when no cost basis is known
	Share       string // share of the category market value
}

// NewReport builds the renderable view from a valuation report. The share
// column replaces the allocation pie of a graphical frontend: it is each
// instrument's slice of its category market value.
func NewReport(r *folio.Report) *Report {
	view := &Report{
		Currency: r.Currency,
		Notices:  r.Notices,
		Total:    r.Total.String(),
	}
	for _, c := range r.Categories {
		cat := Category{
			Name:     c.Name,
			Currency: c.Currency,
			Total:    c.Total.String(),
		}
		if c.Err != nil {
			cat.Unavailable = c.Err.Error()
			view.Categories = append(view.Categories, cat)
			continue
		}
		total := c.Total.AsFloat()
		for _, h := range c.Holdings {
			row := Row{
				ID:          h.ID,
				Quantity:    h.Quantity.String(),
				Price:       h.Price.String(),
				MarketValue: h.MarketValue.String(),
				Return:      "-",
				Share:       "-",
			}
			if h.HasReturn {
				row.Return = h.Return.SignedString()
			}
			if total > 0 {
				row.Share = fmt.Sprintf("%.1f%%", h.MarketValue.AsFloat()/total*100)
			}
			cat.Rows = append(cat.Rows, row)
		}
		for _, s := range c.Skips {
			cat.Skips = append(cat.Skips, s.String())
		}
		view.Categories = append(view.Categories, cat)
	}
	return view
}
