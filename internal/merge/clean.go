package merge

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Renames maps verbose source column names to their merged names.
var Renames = map[string]string{
	record.ColRawMedianHourlyWage: record.ColMedianHourlyWage,
	record.ColRawMeanHourlyWage:   record.ColMeanHourlyWage,
	record.ColRawAnnualMeanWage:   record.ColAnnualMeanWage,
	record.ColRawMedianRent:       record.ColMedianRent,
	record.ColRawRentalVacancy:    record.ColRentalVacancy,
	record.ColRawMedianHomePrice:  record.ColMedianHomePrice,
}

// renameOrder fixes the order renames are applied in.
var renameOrder = []string{
	record.ColRawMedianHourlyWage,
	record.ColRawMeanHourlyWage,
	record.ColRawAnnualMeanWage,
	record.ColRawMedianRent,
	record.ColRawRentalVacancy,
	record.ColRawMedianHomePrice,
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// canonicalStates rewrites the State column to canonical full names and drops
// rows that are not one of the 51 jurisdictions. It returns the dropped keys.
func canonicalStates(df dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	if df.Err != nil {
		return df, nil, df.Err
	}
	if !hasColumn(df, record.ColState) {
		return df, nil, fmt.Errorf("missing %q column", record.ColState)
	}

	keys := df.Col(record.ColState).Records()
	keep := make([]int, 0, len(keys))
	names := make([]string, 0, len(keys))
	var dropped []string
	for i, key := range keys {
		name, ok := record.Canonical(key)
		if !ok {
			dropped = append(dropped, strings.TrimSpace(key))
			continue
		}
		keep = append(keep, i)
		names = append(names, name)
	}

	if len(keep) == 0 {
		return df, dropped, fmt.Errorf("no state rows among %d rows", len(keys))
	}

	out := df.Subset(keep)
	if out.Err != nil {
		return df, nil, out.Err
	}
	out = out.Mutate(series.New(names, series.String, record.ColState))
	return out, dropped, out.Err
}

// CleanCostOfLiving sorts the cost-of-living table by state, drops the Rank
// column and removes the territory and total rows.
func CleanCostOfLiving(df dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	out, dropped, err := canonicalStates(df)
	if err != nil {
		return df, nil, fmt.Errorf("cleaning cost of living: %w", err)
	}

	out = out.Arrange(dataframe.Sort(record.ColState))
	if hasColumn(out, record.ColRank) {
		out = out.Drop(record.ColRank)
	}
	if out.Err != nil {
		return df, nil, fmt.Errorf("cleaning cost of living: %w", out.Err)
	}
	return out, dropped, nil
}

// CleanWages removes territory rows from the wage table.
func CleanWages(df dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	out, dropped, err := canonicalStates(df)
	if err != nil {
		return df, nil, fmt.Errorf("cleaning wages: %w", err)
	}
	return out, dropped, nil
}

// CleanRent normalises the state keys of the rent table.
func CleanRent(df dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	out, dropped, err := canonicalStates(df)
	if err != nil {
		return df, nil, fmt.Errorf("cleaning rent: %w", err)
	}
	return out, dropped, nil
}

// Rename shortens the verbose column names listed in Renames. Columns that
// are absent are skipped.
func Rename(df dataframe.DataFrame) dataframe.DataFrame {
	for _, old := range renameOrder {
		if hasColumn(df, old) {
			df = df.Rename(Renames[old], old)
		}
	}
	return df
}

func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "nan") || v == "NA"
}

// ForwardFill replaces each missing value of column with the nearest preceding
// non-missing value in row order. A leading run of missing values stays empty.
func ForwardFill(df dataframe.DataFrame, column string) (dataframe.DataFrame, int, error) {
	if !hasColumn(df, column) {
		return df, 0, fmt.Errorf("forward fill: missing %q column", column)
	}

	values := df.Col(column).Records()
	filled := 0
	last := ""
	for i, v := range values {
		if !isMissing(v) {
			last = v
			continue
		}
		values[i] = last
		if last != "" {
			filled++
		}
	}

	out := df.Mutate(series.New(values, series.String, column))
	return out, filled, out.Err
}
