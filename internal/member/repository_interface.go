package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByID(ctx context.Context, id int) (*Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByClub(ctx context.Context, clubID, limit, offset int) ([]Member, error)
}
