package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func premiumPlan() MembershipPlan {
	return MembershipPlan{
		ID:             2,
		Name:           "Premium",
		Description:    "Most popular choice",
		Price:          49.99,
		BillingPeriod:  BillingMonthly,
		Features:       []string{"24/7 access", "All group classes included"},
		Popular:        true,
		YearlyDiscount: 20,
		IsActive:       true,
	}
}

func TestPricedForMonthly(t *testing.T) {
	quoted := premiumPlan().PricedFor(BillingMonthly)

	assert.Equal(t, BillingMonthly, quoted.BillingPeriod)
	assert.InDelta(t, 49.99, quoted.Price, 0.001)
	assert.InDelta(t, 49.99, quoted.MonthlyEquivalent, 0.001)
	assert.Equal(t, 0, quoted.Discount)
}

func TestPricedForYearlyAppliesDiscount(t *testing.T) {
	quoted := premiumPlan().PricedFor(BillingYearly)

	assert.Equal(t, BillingYearly, quoted.BillingPeriod)
	assert.InDelta(t, 49.99*12*0.8, quoted.Price, 0.001)
	assert.InDelta(t, 49.99*0.8, quoted.MonthlyEquivalent, 0.001)
	assert.Equal(t, 20, quoted.Discount)
}

func TestPricedForYearlyWithoutDiscount(t *testing.T) {
	plan := premiumPlan()
	plan.YearlyDiscount = 0

	quoted := plan.PricedFor(BillingYearly)

	// No yearly pricing advantage: the monthly quote stands.
	assert.Equal(t, BillingMonthly, quoted.BillingPeriod)
	assert.InDelta(t, 49.99, quoted.Price, 0.001)
	assert.Equal(t, 0, quoted.Discount)
}
