package club

import (
	"time"

	"github.com/shopspring/decimal"
)

// Club is the tenant every member, plan and contract hangs off. Policy
// fields are the club-level defaults new contracts inherit unless the
// plan or contract overrides them.
type Club struct {
	ID                    int             `db:"id" json:"id"`
	Name                  string          `db:"name" json:"name"`
	City                  string          `db:"city" json:"city"`
	Timezone              string          `db:"timezone" json:"timezone"`
	Currency              string          `db:"currency" json:"currency"`
	TaxRate               decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	NoticePeriodDays      int             `db:"notice_period_days" json:"notice_period_days"`
	CoolingOffDays        int             `db:"cooling_off_days" json:"cooling_off_days"`
	ContractNumberPrefix  string          `db:"contract_number_prefix" json:"contract_number_prefix"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
}

type CreateClubRequest struct {
	Name                 string `json:"name" binding:"required"`
	City                 string `json:"city" binding:"required"`
	Timezone             string `json:"timezone"`
	Currency             string `json:"currency"`
	TaxRate              string `json:"tax_rate"`
	NoticePeriodDays     int    `json:"notice_period_days" binding:"omitempty,min=0,max=90"`
	CoolingOffDays       int    `json:"cooling_off_days" binding:"omitempty,min=0,max=30"`
	ContractNumberPrefix string `json:"contract_number_prefix"`
}

type UpdatePolicyRequest struct {
	TaxRate          *string `json:"tax_rate"`
	NoticePeriodDays *int    `json:"notice_period_days" binding:"omitempty,min=0,max=90"`
	CoolingOffDays   *int    `json:"cooling_off_days" binding:"omitempty,min=0,max=30"`
}
