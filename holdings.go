package folio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Column names as they appear in the portfolio CSV files.
const (
	ColTicker     = "Ticker"
	ColShares     = "Shares"
	ColCostBasis  = "Avg. Cost Basis"
	ColUnits      = "Units"
	ColSchemeCode = "Scheme Code"
)

// CSVSource reads the holdings of one category from a CSV file.
//
// The id and quantity columns are required; the cost column is optional
// and, when empty, the category carries no cost basis and no return is
// computed for its holdings. Rows without an identifier are dropped.
type CSVSource struct {
	Name     string // category name, used in error reports
	Path     string
	IDCol    string
	QtyCol   string
	CostCol  string // "" when the category has no cost basis
	Currency string // quote currency, denominates the cost basis
}

// Holdings loads and parses the file. An absent file is reported as
// *SourceMissingError so the composer can isolate the category.
func (s *CSVSource) Holdings() ([]Holding, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &SourceMissingError{Name: s.Name, Path: s.Path}
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings for %s: %w", s.Name, err)
	}
	defer f.Close()
	return s.parse(f)
}

func (s *CSVSource) parse(r io.Reader) ([]Holding, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header of %s holdings: %w", s.Name, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	idx, ok := cols[s.IDCol]
	if !ok {
		return nil, fmt.Errorf("%s holdings: missing required column %q", s.Name, s.IDCol)
	}
	qtyIdx, ok := cols[s.QtyCol]
	if !ok {
		return nil, fmt.Errorf("%s holdings: missing required column %q", s.Name, s.QtyCol)
	}
	costIdx := -1
	if s.CostCol != "" {
		costIdx, ok = cols[s.CostCol]
		if !ok {
			return nil, fmt.Errorf("%s holdings: missing required column %q", s.Name, s.CostCol)
		}
	}

	var holdings []Holding
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s holdings: %w", s.Name, err)
		}

		id := NormalizeID(record[idx])
		if id == "" {
			// a row without an identifier never reaches the engine
			continue
		}

		h := Holding{ID: id, CostKnown: costIdx >= 0}
		// Unparseable numbers become zero values: the aggregator will
		// skip and report the row instead of aborting the whole file.
		if qty, err := ParseQuantity(record[qtyIdx]); err == nil {
			h.Quantity = qty
		}
		if costIdx >= 0 {
			if cost, err := ParseMoney(record[costIdx], s.Currency); err == nil {
				h.CostBasis = cost
			} else {
				h.CostBasis = M(0, s.Currency)
			}
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
