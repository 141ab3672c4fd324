package record

import "strings"

// stateCodes maps postal codes to the canonical full names of the 50 states and DC.
var stateCodes = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho", "IL": "Illinois",
	"IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateCodes))
	for _, name := range stateCodes {
		m[strings.ToLower(name)] = name
	}
	// Alternate spellings seen in published tables.
	m["washington dc"] = "District of Columbia"
	m["washington, d.c."] = "District of Columbia"
	m["d.c."] = "District of Columbia"
	return m
}()

// Canonical maps a state key (postal code or full name in any casing) to the
// canonical full state name. ok is false for territories, totals and unknown keys.
func Canonical(key string) (name string, ok bool) {
	key = strings.Join(strings.Fields(strings.ReplaceAll(key, "\u00a0", " ")), " ")
	if key == "" {
		return "", false
	}
	if name, ok := stateCodes[strings.ToUpper(key)]; ok && len(key) == 2 {
		return name, true
	}
	name, ok = stateNames[strings.ToLower(key)]
	return name, ok
}

// IsJurisdiction reports whether key names one of the 50 states or DC.
func IsJurisdiction(key string) bool {
	_, ok := Canonical(key)
	return ok
}

// Code returns the postal code for a canonical state name.
func Code(name string) string {
	for code, n := range stateCodes {
		if n == name {
			return code
		}
	}
	return ""
}

// JurisdictionCount is the number of join keys that can survive cleaning.
const JurisdictionCount = 51
