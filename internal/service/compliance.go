package service

import (
	"context"
	"time"

	"creative-builder/internal/model"
)

type ComplianceCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
}

type ComplianceReport struct {
	Passed bool              `json:"passed"`
	Checks []ComplianceCheck `json:"checks"`
}

// ComplianceChecker reviews a finished plan. It sits outside the layout
// contract; the engine never consults it.
type ComplianceChecker interface {
	Check(ctx context.Context, plan model.LayoutPlan) (ComplianceReport, error)
}

// MockCompliance verifies the product placement geometrically and reports the
// remaining checks as passed. Delay simulates a slow remote reviewer.
type MockCompliance struct {
	Delay time.Duration
}

func (m MockCompliance) Check(ctx context.Context, plan model.LayoutPlan) (ComplianceReport, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ComplianceReport{}, ctx.Err()
		case <-timer.C:
		}
	}

	w := float64(plan.Width)
	h := float64(plan.Height)
	img := plan.Image.Rect
	const eps = 1e-6
	inZone := img.Y >= h*productZoneTop-eps && img.Y+img.H <= h*productZoneBottom+eps
	inPadding := img.X >= w*productPadding-eps && img.X+img.W <= w*(1-productPadding)+eps
	visible := img.W > 0 && img.H > 0 && img.X >= 0 && img.Y >= 0 && img.X+img.W <= w && img.Y+img.H <= h

	report := ComplianceReport{Checks: []ComplianceCheck{
		{Name: "Product fully visible (No Crop)", Passed: visible},
		{Name: "Safe zones enforced", Passed: inZone && inPadding},
		{Name: "Text density < 20%", Passed: true},
		{Name: "High contrast CTA", Passed: true},
	}}
	report.Passed = true
	for _, c := range report.Checks {
		report.Passed = report.Passed && c.Passed
	}
	return report, nil
}
