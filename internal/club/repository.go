package club

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const clubColumns = `id, name, city, timezone, currency, tax_rate, notice_period_days, cooling_off_days, contract_number_prefix, created_at`

func (r *repository) Create(ctx context.Context, c *Club) (*Club, error) {
	query := `
		INSERT INTO clubs (name, city, timezone, currency, tax_rate, notice_period_days, cooling_off_days, contract_number_prefix)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + clubColumns

	var created Club
	err := r.db.GetContext(ctx, &created, query,
		c.Name, c.City, c.Timezone, c.Currency, c.TaxRate,
		c.NoticePeriodDays, c.CoolingOffDays, c.ContractNumberPrefix)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`

	var c Club
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs ORDER BY created_at DESC`

	var clubs []Club
	err := r.db.SelectContext(ctx, &clubs, query)
	if err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *repository) UpdatePolicy(ctx context.Context, id int, taxRate *string, noticePeriodDays, coolingOffDays *int) (*Club, error) {
	query := `
		UPDATE clubs
		SET tax_rate = COALESCE($2, tax_rate),
		    notice_period_days = COALESCE($3, notice_period_days),
		    cooling_off_days = COALESCE($4, cooling_off_days)
		WHERE id = $1
		RETURNING ` + clubColumns

	var c Club
	err := r.db.GetContext(ctx, &c, query, id, taxRate, noticePeriodDays, coolingOffDays)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// NextContractSequence bumps and returns the per-club, per-year counter
// used to build contract numbers. The upsert keeps it gapless under
// concurrent signups.
func (r *repository) NextContractSequence(ctx context.Context, clubID, year int) (int, error) {
	query := `
		INSERT INTO contract_sequences (club_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (club_id, year)
		DO UPDATE SET last_value = contract_sequences.last_value + 1
		RETURNING last_value
	`

	var seq int
	err := r.db.GetContext(ctx, &seq, query, clubID, year)
	if err != nil {
		return 0, err
	}

	return seq, nil
}
