package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"creative-builder/internal/model"
)

func TestMockCompliancePassesComputedPlans(t *testing.T) {
	brand := model.BrandContext{BrandName: "Acme"}
	for _, tpl := range ListTemplates() {
		for _, a := range []float64{0.2, 1, 5} {
			plan, err := ComputeLayout(tpl, brand, model.DefaultStyleConfig(), a)
			if err != nil {
				t.Fatalf("layout: %v", err)
			}
			report, err := MockCompliance{}.Check(context.Background(), plan)
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if !report.Passed || len(report.Checks) != 4 {
				t.Fatalf("%s aspect %v: %+v", tpl.Slug, a, report)
			}
		}
	}
}

func TestMockComplianceFlagsEscapedImage(t *testing.T) {
	plan, err := ComputeLayout(mustTemplate(t, "square"), model.BrandContext{BrandName: "Acme"}, model.DefaultStyleConfig(), 1)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	plan.Image.Rect.Y = 10
	report, err := MockCompliance{}.Check(context.Background(), plan)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Passed {
		t.Fatal("expected failure")
	}
	for _, c := range report.Checks {
		if c.Name == "Safe zones enforced" && c.Passed {
			t.Fatal("safe zone check should fail")
		}
	}
}

func TestMockComplianceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MockCompliance{Delay: time.Minute}.Check(ctx, model.LayoutPlan{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
