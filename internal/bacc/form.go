package bacc

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Form holds the calculator inputs. Children keep the order they were added
// in and are identified as "child-N"; N restarts at 1 after Reset.
type Form struct {
	rank             string
	location         string
	costShare        float64
	defaultCostShare float64
	children         []Child
	counter          int
}

// NewForm returns an empty form whose cost share starts at
// defaultCostShare. A value outside [0, 100] falls back to DefaultCostShare.
func NewForm(defaultCostShare float64) *Form {
	if defaultCostShare < 0 || defaultCostShare > 100 {
		defaultCostShare = DefaultCostShare
	}
	return &Form{costShare: defaultCostShare, defaultCostShare: defaultCostShare}
}

// Rank returns the selected pay grade.
func (f *Form) Rank() string { return f.rank }

// Location returns the selected location.
func (f *Form) Location() string { return f.location }

// CostShare returns the cost-share percentage.
func (f *Form) CostShare() float64 { return f.costShare }

// Children returns a copy of the children in insertion order.
func (f *Form) Children() []Child { return slices.Clone(f.children) }

// SetRank selects a pay grade. The empty string clears it.
func (f *Form) SetRank(rank string) error {
	if rank != "" {
		if _, ok := BaseAllowance(rank); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownRank, rank)
		}
	}
	f.rank = rank
	return nil
}

// SetLocation selects a location. The empty string clears it.
func (f *Form) SetLocation(location string) error {
	if location != "" {
		if _, ok := GeoMultiplier(location); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLocation, location)
		}
	}
	f.location = location
	return nil
}

// SetCostShare parses a percentage. Input that does not parse, or parses to
// zero or a value outside [0, 100], becomes the form's default. The stored
// value is returned.
func (f *Form) SetCostShare(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(input), "%")), 64)
	if err != nil || v == 0 || v < 0 || v > 100 {
		v = f.defaultCostShare
	}
	f.costShare = v
	return v
}

// AddChild appends a child with no age category and returns its ID.
func (f *Form) AddChild() string {
	f.counter++
	id := fmt.Sprintf("child-%d", f.counter)
	f.children = append(f.children, Child{ID: id})
	return id
}

// RemoveChild removes the child with id and reports whether it existed.
// IDs of the remaining children are not renumbered.
func (f *Form) RemoveChild(id string) bool {
	i := f.index(id)
	if i < 0 {
		return false
	}
	f.children = slices.Delete(f.children, i, i+1)
	return true
}

// SetChildAge sets the age category of a child. The empty string clears it.
func (f *Form) SetChildAge(id, age string) error {
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("no child %q", id)
	}
	if age != "" {
		if _, ok := AgeMultiplier(age); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAge, age)
		}
	}
	f.children[i].Age = age
	return nil
}

// Reset clears every field and restores the default cost share.
func (f *Form) Reset() {
	f.rank = ""
	f.location = ""
	f.costShare = f.defaultCostShare
	f.children = nil
	f.counter = 0
}

// LoadScenario resets the form and fills it from s.
func (f *Form) LoadScenario(s Scenario) error {
	f.Reset()
	if err := f.SetRank(s.Rank); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	if err := f.SetLocation(s.Location); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	for _, age := range s.Ages {
		id := f.AddChild()
		if err := f.SetChildAge(id, age); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return nil
}

// Complete reports whether rank, location and at least one child with an
// age category are set.
func (f *Form) Complete() bool {
	if f.rank == "" || f.location == "" {
		return false
	}
	for _, c := range f.children {
		if c.Age != "" {
			return true
		}
	}
	return false
}

// Request builds the calculator request for the current inputs.
func (f *Form) Request() Request {
	children := f.Children()
	if children == nil {
		children = []Child{}
	}
	return Request{
		Rank:      f.rank,
		Location:  f.location,
		CostShare: f.costShare,
		Children:  children,
	}
}

func (f *Form) index(id string) int {
	return slices.IndexFunc(f.children, func(c Child) bool { return c.ID == id })
}
