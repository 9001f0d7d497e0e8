package scheduling

import (
	"errors"
	"testing"

	"knipetak/models"
)

func massageTreatment() models.Treatment {
	return models.Treatment{
		ID:   "classic",
		Name: "Classic massage",
		Durations: []models.DurationOption{
			{Duration: 30, Price: 500},
			{Duration: 60, Price: 900},
		},
		Discounts: models.GroupDiscount{
			GroupSizeThreshold: 3,
			Prices:             map[string]float64{"30": 400},
		},
	}
}

func assertValidationCode(t *testing.T, err error, code string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Code != code {
		t.Errorf("code = %s, want %s", verr.Code, code)
	}
}

func TestResolvePricingIndividual(t *testing.T) {
	price, err := ResolvePricing(massageTreatment(), false, 0, 60)
	if err != nil {
		t.Fatalf("ResolvePricing: %v", err)
	}
	if price != 900 {
		t.Errorf("price = %v, want 900", price)
	}
}

func TestResolvePricingIndividualUnknownDuration(t *testing.T) {
	_, err := ResolvePricing(massageTreatment(), false, 0, 45)
	assertValidationCode(t, err, CodeInvalidDuration)
}

func TestResolvePricingGroupWithDiscount(t *testing.T) {
	// Three people, 90 minutes total: 30 each, at the discounted 400.
	price, err := ResolvePricing(massageTreatment(), true, 3, 90)
	if err != nil {
		t.Fatalf("ResolvePricing: %v", err)
	}
	if price != 1200 {
		t.Errorf("price = %v, want 1200", price)
	}
}

func TestResolvePricingGroupBelowThreshold(t *testing.T) {
	// Two people do not reach the discount threshold of three.
	price, err := ResolvePricing(massageTreatment(), true, 2, 60)
	if err != nil {
		t.Fatalf("ResolvePricing: %v", err)
	}
	if price != 1000 {
		t.Errorf("price = %v, want 1000 (2 x standard 500)", price)
	}
}

func TestResolvePricingGroupNoDiscountForDuration(t *testing.T) {
	// 60 minutes each has no discounted price, so standard applies even
	// above the threshold.
	price, err := ResolvePricing(massageTreatment(), true, 3, 180)
	if err != nil {
		t.Fatalf("ResolvePricing: %v", err)
	}
	if price != 2700 {
		t.Errorf("price = %v, want 2700 (3 x standard 900)", price)
	}
}

func TestResolvePricingGroupFractionalSplit(t *testing.T) {
	_, err := ResolvePricing(massageTreatment(), true, 3, 100)
	assertValidationCode(t, err, CodeInvalidDuration)
}

func TestResolvePricingGroupUnpublishedEffectiveDuration(t *testing.T) {
	// 120 / 3 = 40 minutes each, which is not a published option.
	_, err := ResolvePricing(massageTreatment(), true, 3, 120)
	assertValidationCode(t, err, CodeInvalidDuration)
}

func TestResolvePricingGroupSizeZero(t *testing.T) {
	_, err := ResolvePricing(massageTreatment(), true, 0, 60)
	assertValidationCode(t, err, CodeInvalidGroupSize)
}

func TestResolvePricingNoDuration(t *testing.T) {
	_, err := ResolvePricing(massageTreatment(), false, 0, 0)
	assertValidationCode(t, err, CodeInvalidDuration)
}
