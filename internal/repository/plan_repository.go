package repository

import (
	"context"
	"database/sql"

	"github.com/ironpeak/gym-class-booking/internal/model"
)

// PlanRepo provides read access to the membership plans catalog.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo returns a PlanRepo bound to the given database.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

// List returns plans matching the active flag, cheapest first.
func (r *PlanRepo) List(ctx context.Context, isActive bool) ([]model.MembershipPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, price, billing_period, features, limitations,
		        popular, yearly_discount, is_active
		 FROM membership_plans
		 WHERE is_active = ?
		 ORDER BY price ASC`,
		isActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []model.MembershipPlan{}
	for rows.Next() {
		var (
			p     model.MembershipPlan
			feats []byte
			lims  []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.BillingPeriod, &feats, &lims,
			&p.Popular, &p.YearlyDiscount, &p.IsActive,
		); err != nil {
			return nil, err
		}
		p.Features = decodeStrings(feats)
		p.Limitations = decodeStrings(lims)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
