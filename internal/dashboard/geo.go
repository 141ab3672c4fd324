package dashboard

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb/geojson"
	"github.com/pfrederiksen/movewise/internal/analysis"
	"github.com/pfrederiksen/movewise/internal/format"
	"github.com/pfrederiksen/movewise/internal/record"
)

// Feature property keys added to the boundary file.
const (
	PropName            = "name"
	PropLivingCost      = "living_cost"
	PropMedianHomePrice = "median_home_price"
	PropIndex           = "index"
	PropFill            = "fill"
)

// Palette colors the map from the cheapest to the most expensive quintile.
var Palette = []string{"#ffffb2", "#fecc5c", "#fd8d3c", "#f03b20", "#bd0026"}

// AnnotateBoundaries adds tooltip text, the cost-of-living index and a fill
// color to every feature whose name matches a state in rows. Features for
// unknown regions get empty strings.
func AnnotateBoundaries(raw []byte, rows []analysis.StateLiving) ([]byte, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing boundaries: %w", err)
	}

	byState := make(map[string]analysis.StateLiving, len(rows))
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if _, dup := byState[r.State]; dup {
			continue
		}
		byState[r.State] = r
		values = append(values, r.LivingCost.Index)
	}
	breaks := analysis.Quantiles(values, 0.2, 0.4, 0.6, 0.8)

	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		f.Properties[PropLivingCost] = ""
		f.Properties[PropMedianHomePrice] = ""
		f.Properties[PropFill] = ""

		name, ok := record.Canonical(f.Properties.MustString(PropName, ""))
		if !ok {
			continue
		}
		r, ok := byState[name]
		if !ok {
			continue
		}

		idx := r.LivingCost.Index
		f.Properties[PropIndex] = idx
		f.Properties[PropLivingCost] = "Cost of Living: " + format.Number(idx)
		if r.MedianHomePrice != nil {
			f.Properties[PropMedianHomePrice] = "Median Home Price: " + format.Dollars(*r.MedianHomePrice)
		}
		f.Properties[PropFill] = Palette[sort.SearchFloat64s(breaks, idx)]
	}

	return fc.MarshalJSON()
}
