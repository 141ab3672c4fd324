package merge

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Merge inner-joins rent with cost of living, then the wage table with that
// result, all on State. Columns come out as wage, rent, cost of living.
// It returns the states that were present in at least one input but did not
// survive both joins.
func Merge(rent, cost, wage dataframe.DataFrame) (dataframe.DataFrame, []string, error) {
	for name, df := range map[string]dataframe.DataFrame{"rent": rent, "cost of living": cost, "wage": wage} {
		if df.Err != nil {
			return dataframe.DataFrame{}, nil, fmt.Errorf("%s table: %w", name, df.Err)
		}
		if !hasColumn(df, record.ColState) {
			return dataframe.DataFrame{}, nil, fmt.Errorf("%s table: missing %q column", name, record.ColState)
		}
	}

	housing := rent.InnerJoin(cost, record.ColState)
	if housing.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("joining rent and cost of living: %w", housing.Err)
	}

	merged := wage.InnerJoin(housing, record.ColState)
	if merged.Err != nil {
		return dataframe.DataFrame{}, nil, fmt.Errorf("joining wages: %w", merged.Err)
	}

	return merged, droppedStates(merged, rent, cost, wage), nil
}

// droppedStates lists keys seen in any input but absent from the result.
func droppedStates(result dataframe.DataFrame, inputs ...dataframe.DataFrame) []string {
	kept := make(map[string]bool)
	for _, s := range result.Col(record.ColState).Records() {
		kept[s] = true
	}

	seen := make(map[string]bool)
	var dropped []string
	for _, df := range inputs {
		for _, s := range df.Col(record.ColState).Records() {
			if kept[s] || seen[s] {
				continue
			}
			seen[s] = true
			dropped = append(dropped, s)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// Clean applies the post-join renames and fills missing median home prices.
func Clean(merged dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	out := Rename(merged)
	if out.Err != nil {
		return merged, 0, fmt.Errorf("renaming columns: %w", out.Err)
	}
	return ForwardFill(out, record.ColMedianHomePrice)
}
