package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/globalfolio/folio"
	"github.com/shopspring/decimal"
)

func sampleReport() *folio.Report {
	aapl := folio.ValuedHolding{
		Holding:        folio.Holding{ID: "AAPL", Quantity: folio.Q(10), CostBasis: folio.M(1500, "USD"), CostKnown: true},
		Price:          folio.M(190, "USD"),
		ConvertedPrice: folio.M(190, "USD"),
		MarketValue:    folio.M(1900, "USD"),
		Return:         folio.Percent(26.67),
		HasReturn:      true,
	}
	msft := folio.ValuedHolding{
		Holding:        folio.Holding{ID: "MSFT", Quantity: folio.Q(1)},
		Price:          folio.M(100, "USD"),
		ConvertedPrice: folio.M(100, "USD"),
		MarketValue:    folio.M(100, "USD"),
	}
	return &folio.Report{
		Currency: "USD",
		Categories: []folio.CategoryReport{
			{
				Name:     "US stocks",
				Currency: "USD",
				Rate:     decimal.NewFromInt(1),
				Holdings: []folio.ValuedHolding{aapl, msft},
				Skips:    []folio.Skip{{ID: "BAD", Reason: "no quote available"}},
				Total:    folio.M(2000, "USD"),
			},
			{
				Name: "Mutual funds",
				Err:  errors.New("holdings file missing: mf.csv"),
			},
		},
		Total:   folio.M(2000, "USD"),
		Notices: []string{"Mutual funds unavailable: holdings file missing: mf.csv"},
	}
}

func TestNewReport(t *testing.T) {
	view := NewReport(sampleReport())

	if view.Total != "$2,000.00" {
		t.Errorf("Total = %q, want %q", view.Total, "$2,000.00")
	}
	if len(view.Categories) != 2 {
		t.Fatalf("len(Categories) = %d, want 2", len(view.Categories))
	}

	us := view.Categories[0]
	if len(us.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(us.Rows))
	}
	if got := us.Rows[0].Share; got != "95.0%" {
		t.Errorf("Rows[0].Share = %q, want %q", got, "95.0%")
	}
	if got := us.Rows[0].Return; got != "+26.67%" {
		t.Errorf("Rows[0].Return = %q, want %q", got, "+26.67%")
	}
	if got := us.Rows[1].Return; got != "-" {
		t.Errorf("Rows[1].Return = %q, want %q", got, "-")
	}
	if len(us.Skips) != 1 || !strings.Contains(us.Skips[0], "BAD") {
		t.Errorf("Skips = %v, want one entry naming BAD", us.Skips)
	}

	mf := view.Categories[1]
	if mf.Unavailable == "" {
		t.Error("failed category should carry an Unavailable message")
	}
	if len(mf.Rows) != 0 {
		t.Errorf("failed category has %d rows, want 0", len(mf.Rows))
	}
}

func TestRenderReport(t *testing.T) {
	md := RenderReport(NewReport(sampleReport()))

	for _, want := range []string{
		"# Portfolio Valuation (USD)",
		"## US stocks",
		"| AAPL | 10 | $190.00 | $1,900.00 | +26.67% | 95.0% |",
		"| MSFT | 1 | $100.00 | $100.00 | - | 5.0% |",
		"- BAD: no quote available",
		"Category total: $2,000.00",
		"## Mutual funds",
		"_holdings file missing: mf.csv_",
		"## Notices",
		"- Mutual funds unavailable: holdings file missing: mf.csv",
		"**Total Portfolio Value: $2,000.00**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("rendered report is missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "error ") {
		t.Errorf("rendered report contains a template error:\n%s", md)
	}
}
