package storage

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/pfrederiksen/movewise/internal/record"
)

// ErrSymbolInNumber is returned when a numeric cell of the merged table still
// carries a currency, percent or thousands-separator character.
var ErrSymbolInNumber = errors.New("formatting symbol in numeric cell")

// ErrMissingColumn is returned when the merged table lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// ParseStateRecords converts a merged dataframe into typed records.
func ParseStateRecords(df dataframe.DataFrame) ([]record.StateRecord, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	rows := df.Records()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMissingColumn)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}
	for _, col := range record.MergedColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	out := make([]record.StateRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

type rowParser struct {
	row []string
	idx map[string]int
	err error
}

func (p *rowParser) cell(col string) string {
	return p.row[p.idx[col]]
}

func (p *rowParser) check(col string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v := p.cell(col)
	if record.HasSymbols(v) {
		p.err = fmt.Errorf("%w: %s=%q", ErrSymbolInNumber, col, v)
		return "", false
	}
	return v, true
}

func (p *rowParser) int(col string) int {
	v, ok := p.check(col)
	if !ok {
		return 0
	}
	n, err := record.ParseInt(v)
	if err != nil {
		// Whole-number floats such as "1018.0" are accepted for integer columns.
		f, ferr := record.ParseFloat(v)
		if ferr != nil || f != float64(int(f)) {
			p.err = fmt.Errorf("%s: %w", col, err)
			return 0
		}
		n = int(f)
	}
	return n
}

func (p *rowParser) float(col string) float64 {
	v, ok := p.check(col)
	if !ok {
		return 0
	}
	f, err := record.ParseFloat(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return f
}

func (p *rowParser) optionalFloat(col string) *float64 {
	v, ok := p.check(col)
	if !ok {
		return nil
	}
	f, err := record.ParseOptionalFloat(v)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", col, err)
	}
	return f
}

func parseRow(row []string, idx map[string]int) (record.StateRecord, error) {
	p := &rowParser{row: row, idx: idx}
	rec := record.StateRecord{
		State:                p.cell(record.ColState),
		Industry:             p.cell(record.ColIndustry),
		Employment:           p.int(record.ColEmployment),
		MedianHourlyWage:     p.float(record.ColMedianHourlyWage),
		MeanHourlyWage:       p.float(record.ColMeanHourlyWage),
		AnnualMeanWage:       p.float(record.ColAnnualMeanWage),
		MedianRent:           p.int(record.ColMedianRent),
		RentalVacancy:        p.float(record.ColRentalVacancy),
		OccupiedHousingUnits: p.int(record.ColOccupiedHousingUnits),
		MedianHomePrice:      p.optionalFloat(record.ColMedianHomePrice),
		LivingCost: record.LivingCost{
			Index:          p.float(record.ColIndex),
			Grocery:        p.float(record.ColGrocery),
			Housing:        p.float(record.ColHousing),
			Utilities:      p.float(record.ColUtilities),
			Transportation: p.float(record.ColTransportation),
			Health:         p.float(record.ColHealth),
			Misc:           p.float(record.ColMisc),
		},
	}
	return rec, p.err
}

// StateRecordsToRecords renders typed records back into merged CSV records, header first.
func StateRecordsToRecords(recs []record.StateRecord) [][]string {
	out := make([][]string, 0, len(recs)+1)
	out = append(out, append([]string(nil), record.MergedColumns...))
	for _, r := range recs {
		row := make([]string, 0, len(record.MergedColumns))
		row = append(row, r.State, r.Industry)
		for _, col := range record.MergedColumns[2:] {
			v, ok := r.Metric(col)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, record.FormatFloat(v))
		}
		out = append(out, row)
	}
	return out
}
