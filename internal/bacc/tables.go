// Package bacc models the Basic Allowance for Child Care calculation: the
// rank, location and age tables, the calculator form, and the local and
// remote calculators.
package bacc

import "errors"

// Sentinel errors returned when a request names a value outside the tables.
var (
	ErrUnknownRank      = errors.New("unknown rank")
	ErrUnknownLocation  = errors.New("unknown location")
	ErrUnknownAge       = errors.New("unknown age category")
	ErrInvalidCostShare = errors.New("cost share must be between 0 and 100")
	ErrIncomplete       = errors.New("rank, location and at least one child are required")
)

// DefaultCostShare is the family cost-share percentage applied when none is
// given or the input cannot be parsed.
const DefaultCostShare = 10.0

// Location names.
const (
	LocationLow      = "Low Cost"
	LocationStandard = "Standard Cost"
	LocationHigh     = "High Cost"
)

// Age category names.
const (
	AgeInfant    = "Infant (0-12 months)"
	AgeToddler   = "Toddler (13-24 months)"
	AgePreschool = "Preschool (25-60 months)"
	AgeSchool    = "School-age (6-13 years)"
)

type rankEntry struct {
	grade     string
	allowance float64
}

// rankTable is ordered by pay grade group then grade.
var rankTable = []rankEntry{
	{"E-1", 1200}, {"E-2", 1200}, {"E-3", 1150}, {"E-4", 1100}, {"E-5", 1000},
	{"E-6", 950}, {"E-7", 900}, {"E-8", 800}, {"E-9", 700},
	{"W-1", 950}, {"W-2", 900}, {"W-3", 850}, {"W-4", 800}, {"W-5", 650},
	{"O-1", 900}, {"O-2", 850}, {"O-3", 800}, {"O-4", 700}, {"O-5", 650},
	{"O-6", 550}, {"O-7", 450}, {"O-8", 400}, {"O-9", 350}, {"O-10", 300},
}

type multiplierEntry struct {
	name   string
	factor float64
}

var locationTable = []multiplierEntry{
	{LocationLow, 0.8},
	{LocationStandard, 1.0},
	{LocationHigh, 1.5},
}

var ageTable = []multiplierEntry{
	{AgeInfant, 1.4},
	{AgeToddler, 1.3},
	{AgePreschool, 1.0},
	{AgeSchool, 0.4},
}

// Ranks returns every pay grade in display order.
func Ranks() []string {
	out := make([]string, len(rankTable))
	for i, r := range rankTable {
		out[i] = r.grade
	}
	return out
}

// RankGroup returns the pay grade group of rank: "Enlisted", "Warrant
// Officer" or "Officer".
func RankGroup(rank string) string {
	if rank == "" {
		return ""
	}
	switch rank[0] {
	case 'E':
		return "Enlisted"
	case 'W':
		return "Warrant Officer"
	case 'O':
		return "Officer"
	default:
		return ""
	}
}

// BaseAllowance returns the monthly base allowance of rank.
func BaseAllowance(rank string) (float64, bool) {
	for _, r := range rankTable {
		if r.grade == rank {
			return r.allowance, true
		}
	}
	return 0, false
}

// Locations returns the location names in ascending cost order.
func Locations() []string {
	return names(locationTable)
}

// GeoMultiplier returns the multiplier of a location.
func GeoMultiplier(location string) (float64, bool) {
	return lookup(locationTable, location)
}

// AgeCategories returns the age category names from youngest to oldest.
func AgeCategories() []string {
	return names(ageTable)
}

// AgeMultiplier returns the multiplier of an age category.
func AgeMultiplier(age string) (float64, bool) {
	return lookup(ageTable, age)
}

func names(table []multiplierEntry) []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.name
	}
	return out
}

func lookup(table []multiplierEntry, name string) (float64, bool) {
	for _, e := range table {
		if e.name == name {
			return e.factor, true
		}
	}
	return 0, false
}
