package bacc

import (
	"context"
	"fmt"
	"math"
)

// Child is one child on the form.
type Child struct {
	ID  string `json:"id"`
	Age string `json:"age"`
}

// Request is the body sent to a Calculator.
type Request struct {
	Rank      string  `json:"rank"`
	Location  string  `json:"location"`
	CostShare float64 `json:"costShare"`
	Children  []Child `json:"children"`
}

// Breakdown explains how a child's amount was derived.
type Breakdown struct {
	BaseAllowance    float64 `json:"baseAllowance"`
	GeoMultiplier    float64 `json:"geoMultiplier"`
	AgeMultiplier    float64 `json:"ageMultiplier"`
	BeforeCostShare  float64 `json:"beforeCostShare"`
	CostShareDecimal float64 `json:"costShareDecimal"`
}

// CostShareAmount is the amount removed by the family cost share.
func (b Breakdown) CostShareAmount() float64 {
	return roundCents(b.BeforeCostShare * b.CostShareDecimal)
}

// ChildResult is the monthly allowance of one child.
type ChildResult struct {
	ID        string     `json:"id,omitempty"`
	Age       string     `json:"age"`
	Amount    float64    `json:"amount"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

// Result is the calculator response.
type Result struct {
	TotalMonthly float64       `json:"totalMonthly"`
	TotalAnnual  float64       `json:"totalAnnual"`
	PerChild     []ChildResult `json:"perChild"`
}

// Displayable reports whether r should be shown for req. A missing result,
// a form without rank, location or children, and a zero monthly total all
// fall back to the "complete the form" prompt.
func (r *Result) Displayable(req Request) bool {
	if r == nil {
		return false
	}
	if req.Rank == "" || req.Location == "" || len(req.Children) == 0 {
		return false
	}
	return r.TotalMonthly != 0
}

// Calculator computes allowances.
type Calculator interface {
	Calculate(ctx context.Context, req Request) (*Result, error)
}

// LocalCalculator computes allowances from the built-in tables.
type LocalCalculator struct{}

var _ Calculator = LocalCalculator{}

// Calculate applies base × geographic × age × (1 − cost share) to every
// child. Children without an age category contribute zero and carry no
// breakdown. Amounts are rounded to cents.
func (LocalCalculator) Calculate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Rank == "" || req.Location == "" {
		return nil, ErrIncomplete
	}
	base, ok := BaseAllowance(req.Rank)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRank, req.Rank)
	}
	geo, ok := GeoMultiplier(req.Location)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocation, req.Location)
	}
	if req.CostShare < 0 || req.CostShare > 100 || math.IsNaN(req.CostShare) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCostShare, req.CostShare)
	}
	share := req.CostShare / 100

	res := &Result{PerChild: make([]ChildResult, 0, len(req.Children))}
	for _, c := range req.Children {
		cr := ChildResult{ID: c.ID, Age: c.Age}
		if c.Age != "" {
			ageMul, ok := AgeMultiplier(c.Age)
			if !ok {
				return nil, fmt.Errorf("%w: %q (child %s)", ErrUnknownAge, c.Age, c.ID)
			}
			before := roundCents(base * geo * ageMul)
			cr.Amount = roundCents(before * (1 - share))
			cr.Breakdown = &Breakdown{
				BaseAllowance:    base,
				GeoMultiplier:    geo,
				AgeMultiplier:    ageMul,
				BeforeCostShare:  before,
				CostShareDecimal: share,
			}
		}
		res.TotalMonthly += cr.Amount
		res.PerChild = append(res.PerChild, cr)
	}
	res.TotalMonthly = roundCents(res.TotalMonthly)
	res.TotalAnnual = roundCents(res.TotalMonthly * 12)
	return res, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
