package club

import "context"

type Repository interface {
	Create(ctx context.Context, c *Club) (*Club, error)
	GetByID(ctx context.Context, id int) (*Club, error)
	GetAll(ctx context.Context) ([]Club, error)
	UpdatePolicy(ctx context.Context, id int, taxRate *string, noticePeriodDays, coolingOffDays *int) (*Club, error)
	NextContractSequence(ctx context.Context, clubID, year int) (int, error)
}
