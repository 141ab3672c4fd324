package record

// Industry categories carried by the wage dataset.
const (
	IndustryManagement = "Management"
	IndustryBusiness   = "Business"
	IndustryCS         = "CS"
)

// Industries lists the industry categories in display order.
var Industries = []string{IndustryManagement, IndustryBusiness, IndustryCS}

// Column names of the merged table.
const (
	ColState                = "State"
	ColIndustry             = "Industry"
	ColEmployment           = "Employment"
	ColMedianHourlyWage     = "Median Hourly Wage"
	ColMeanHourlyWage       = "Mean Hourly Wage"
	ColAnnualMeanWage       = "Annual Mean Wage"
	ColMedianRent           = "Median Rent"
	ColRentalVacancy        = "Rental Vacancy"
	ColOccupiedHousingUnits = "Occupied Housing Units"
	ColMedianHomePrice      = "Median Home Price"
	ColIndex                = "Index"
	ColGrocery              = "Grocery"
	ColHousing              = "Housing"
	ColUtilities            = "Utilities"
	ColTransportation       = "Transportation"
	ColHealth               = "Health"
	ColMisc                 = "Misc."
)

// Column names of the scraped rent table and the wage input file, before renaming.
const (
	ColRawMedianRent       = "Median Rent Price ($)"
	ColRawRentalVacancy    = "Rental Vacancy Rate (%)"
	ColRawMedianHomePrice  = "Median Home Price($)"
	ColRawMedianHourlyWage = "Median Hourly Wage ($)"
	ColRawMeanHourlyWage   = "Mean Hourly Wage ($)"
	ColRawAnnualMeanWage   = "Annual Mean Wage ($)"
	ColRank                = "Rank"
)

// RentColumns is the header of the rent intermediate file.
var RentColumns = []string{ColState, ColRawMedianRent, ColRawRentalVacancy, ColOccupiedHousingUnits, ColRawMedianHomePrice}

// LivingCostColumns are the cost-of-living index and its six sub-indices.
var LivingCostColumns = []string{ColIndex, ColGrocery, ColHousing, ColUtilities, ColTransportation, ColHealth, ColMisc}

// JobColumns are the employment and wage metrics of a (state, industry) row.
var JobColumns = []string{ColEmployment, ColMedianHourlyWage, ColMeanHourlyWage, ColAnnualMeanWage}

// HousingColumns are the rent and housing metrics of a state.
var HousingColumns = []string{ColMedianRent, ColRentalVacancy, ColOccupiedHousingUnits, ColMedianHomePrice}

// MergedColumns is the column order of merged_data.csv.
var MergedColumns = []string{
	ColState, ColIndustry, ColEmployment, ColMedianHourlyWage, ColMeanHourlyWage, ColAnnualMeanWage,
	ColMedianRent, ColRentalVacancy, ColOccupiedHousingUnits, ColMedianHomePrice,
	ColIndex, ColGrocery, ColHousing, ColUtilities, ColTransportation, ColHealth, ColMisc,
}

// RentRow is one row of the scraped rent-by-state table.
type RentRow struct {
	State           string
	MedianRent      int
	VacancyRate     float64
	HousingUnits    int
	MedianHomePrice *int // nil when the source cell is empty
}

// CostRow is one row of the scraped cost-of-living table keyed by header text.
type CostRow map[string]string

// LivingCost holds the cost-of-living index and its sub-indices.
type LivingCost struct {
	Index          float64 `json:"index"`
	Grocery        float64 `json:"grocery"`
	Housing        float64 `json:"housing"`
	Utilities      float64 `json:"utilities"`
	Transportation float64 `json:"transportation"`
	Health         float64 `json:"health"`
	Misc           float64 `json:"misc"`
}

// Get returns the sub-index named by one of LivingCostColumns.
func (l LivingCost) Get(column string) (float64, bool) {
	switch column {
	case ColIndex:
		return l.Index, true
	case ColGrocery:
		return l.Grocery, true
	case ColHousing:
		return l.Housing, true
	case ColUtilities:
		return l.Utilities, true
	case ColTransportation:
		return l.Transportation, true
	case ColHealth:
		return l.Health, true
	case ColMisc:
		return l.Misc, true
	}
	return 0, false
}

// StateRecord is one row of the merged table: a (state, industry) pair.
type StateRecord struct {
	State                string     `json:"state"`
	Industry             string     `json:"industry"`
	Employment           int        `json:"employment"`
	MedianHourlyWage     float64    `json:"median_hourly_wage"`
	MeanHourlyWage       float64    `json:"mean_hourly_wage"`
	AnnualMeanWage       float64    `json:"annual_mean_wage"`
	MedianRent           int        `json:"median_rent"`
	RentalVacancy        float64    `json:"rental_vacancy"`
	OccupiedHousingUnits int        `json:"occupied_housing_units"`
	MedianHomePrice      *float64   `json:"median_home_price,omitempty"`
	LivingCost           LivingCost `json:"living_cost"`
}

// Metric returns a numeric column of the record by its merged column name.
// The second return is false for non-numeric columns and for a missing home price.
func (r StateRecord) Metric(column string) (float64, bool) {
	switch column {
	case ColEmployment:
		return float64(r.Employment), true
	case ColMedianHourlyWage:
		return r.MedianHourlyWage, true
	case ColMeanHourlyWage:
		return r.MeanHourlyWage, true
	case ColAnnualMeanWage:
		return r.AnnualMeanWage, true
	case ColMedianRent:
		return float64(r.MedianRent), true
	case ColRentalVacancy:
		return r.RentalVacancy, true
	case ColOccupiedHousingUnits:
		return float64(r.OccupiedHousingUnits), true
	case ColMedianHomePrice:
		if r.MedianHomePrice == nil {
			return 0, false
		}
		return *r.MedianHomePrice, true
	}
	return r.LivingCost.Get(column)
}
