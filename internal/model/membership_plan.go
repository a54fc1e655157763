package model

// Billing periods accepted by the plans catalog.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// MembershipPlan is a priced tier in the plans catalog.  Price is the
// monthly rate; YearlyDiscount is the percentage taken off when the
// plan is billed yearly (zero means no yearly pricing advantage).
type MembershipPlan struct {
	ID             uint64   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	BillingPeriod  string   `json:"billing_period"`
	Features       []string `json:"features"`
	Limitations    []string `json:"limitations"`
	Popular        bool     `json:"popular"`
	YearlyDiscount int      `json:"yearly_discount"`
	IsActive       bool     `json:"is_active"`
}

// PricedPlan is a plan quoted for a specific billing period.
type PricedPlan struct {
	MembershipPlan
	MonthlyEquivalent float64 `json:"monthly_equivalent"`
	Discount          int     `json:"discount"`
}

// PricedFor quotes the plan for the given billing period.  Yearly
// quotes multiply the monthly rate by twelve and apply the plan's
// discount; monthly quotes pass the rate through unchanged.
func (p MembershipPlan) PricedFor(billingPeriod string) PricedPlan {
	quoted := PricedPlan{MembershipPlan: p}
	if billingPeriod == BillingYearly && p.YearlyDiscount > 0 {
		yearly := p.Price * 12 * (1 - float64(p.YearlyDiscount)/100)
		quoted.Price = yearly
		quoted.BillingPeriod = BillingYearly
		quoted.MonthlyEquivalent = yearly / 12
		quoted.Discount = p.YearlyDiscount
		return quoted
	}
	quoted.BillingPeriod = BillingMonthly
	quoted.MonthlyEquivalent = p.Price
	return quoted
}
