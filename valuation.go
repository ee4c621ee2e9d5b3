package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding is one row of a portfolio: a quantity of an instrument, with an
// optional average cost basis in the instrument's quote currency.
type Holding struct {
	ID        string
	Quantity  Quantity
	CostBasis Money
	CostKnown bool // false for categories that carry no cost basis
}

// ValuedHolding is a Holding enriched with its resolved price and market
// value. It is produced only for holdings that pass validation and quote
// resolution.
type ValuedHolding struct {
	Holding
	Price          Money   // in the instrument's quote currency
	ConvertedPrice Money   // in the reporting currency
	MarketValue    Money   // price * quantity * rate, in the reporting currency
	Return         Percent // meaningful only when HasReturn
	HasReturn      bool
}

// Skip reports a holding that was excluded from the valuation, with a
// human-readable reason. Skipped rows contribute nothing to any total.
type Skip struct {
	ID     string
	Reason string
}

func (s Skip) String() string { return fmt.Sprintf("%s: %s", s.ID, s.Reason) }

// Value computes per-holding market values and the running total, in input
// order, converting with the scalar rate into the reporting currency.
//
// It is a best-effort reducer: a bad row is skipped and reported, never
// aborts the batch. A missing quote is an omission, not a zero value. The
// total is always defined and equals exactly the sum of the produced
// market values; it is zero when everything is skipped.
//
// The return percentage is computed on the unconverted price and cost
// basis: both sides stay in the instrument's quote currency, conversion
// applies only to the absolute market value.
func Value(holdings []Holding, quotes map[string]QuoteResult, rate decimal.Decimal, currency string) ([]ValuedHolding, []Skip, Money) {
	var valued []ValuedHolding
	var skips []Skip
	total := M(0, currency)

	for _, h := range holdings {
		id := NormalizeID(h.ID)
		if !h.Quantity.IsPositive() {
			skips = append(skips, Skip{ID: id, Reason: fmt.Sprintf("invalid quantity %s", h.Quantity)})
			continue
		}
		if h.CostKnown && !h.CostBasis.IsPositive() {
			skips = append(skips, Skip{ID: id, Reason: fmt.Sprintf("invalid cost basis %s", h.CostBasis)})
			continue
		}

		q, ok := quotes[id]
		if !ok {
			skips = append(skips, Skip{ID: id, Reason: "no quote resolved"})
			continue
		}
		if q.Err != nil {
			skips = append(skips, Skip{ID: id, Reason: q.Err.Error()})
			continue
		}
		if !q.Price.IsPositive() {
			skips = append(skips, Skip{ID: id, Reason: fmt.Sprintf("non-positive price %s", q.Price)})
			continue
		}

		v := ValuedHolding{
			Holding:        h,
			Price:          q.Price,
			ConvertedPrice: q.Price.Convert(rate, currency),
			MarketValue:    q.Price.Mul(h.Quantity).Convert(rate, currency),
		}
		if h.CostKnown {
			v.Return = q.Price.ReturnOn(h.CostBasis)
			v.HasReturn = true
		}
		total = total.Add(v.MarketValue)
		valued = append(valued, v)
	}

	return valued, skips, total
}

// IDs extracts the instrument identifiers of a holdings slice, in input
// order, without deduplication. The fetcher deduplicates.
func IDs(holdings []Holding) []string {
	ids := make([]string, 0, len(holdings))
	for _, h := range holdings {
		ids = append(ids, h.ID)
	}
	return ids
}
