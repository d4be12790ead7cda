package club

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
)

const (
	defaultTimezone         = "Asia/Riyadh"
	defaultCurrency         = "SAR"
	defaultTaxRate          = "0.15"
	defaultNoticePeriodDays = 30
	defaultCoolingOffDays   = 7
	defaultNumberPrefix     = "LYQ"
)

type Service interface {
	CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error)
	GetClubByID(ctx context.Context, id int) (*Club, error)
	GetAllClubs(ctx context.Context) ([]Club, error)
	UpdatePolicy(ctx context.Context, id int, req UpdatePolicyRequest) (*Club, error)
	NextContractNumber(ctx context.Context, clubID, year int) (string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateClub(ctx context.Context, req CreateClubRequest) (*Club, error) {
	taxRate, err := parseTaxRate(req.TaxRate, defaultTaxRate)
	if err != nil {
		return nil, err
	}

	c := &Club{
		Name:                 req.Name,
		City:                 req.City,
		Timezone:             orDefault(req.Timezone, defaultTimezone),
		Currency:             orDefault(req.Currency, defaultCurrency),
		TaxRate:              taxRate,
		NoticePeriodDays:     req.NoticePeriodDays,
		CoolingOffDays:       req.CoolingOffDays,
		ContractNumberPrefix: orDefault(req.ContractNumberPrefix, defaultNumberPrefix),
	}
	if c.NoticePeriodDays == 0 {
		c.NoticePeriodDays = defaultNoticePeriodDays
	}
	if c.CoolingOffDays == 0 {
		c.CoolingOffDays = defaultCoolingOffDays
	}

	return s.repo.Create(ctx, c)
}

func (s *service) GetClubByID(ctx context.Context, id int) (*Club, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("club %d not found", id)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) GetAllClubs(ctx context.Context) ([]Club, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) UpdatePolicy(ctx context.Context, id int, req UpdatePolicyRequest) (*Club, error) {
	if _, err := s.GetClubByID(ctx, id); err != nil {
		return nil, err
	}

	if req.TaxRate != nil {
		if _, err := parseTaxRate(*req.TaxRate, ""); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdatePolicy(ctx, id, req.TaxRate, req.NoticePeriodDays, req.CoolingOffDays)
}

// NextContractNumber formats the next number in the club's sequence,
// e.g. LYQ-2026-000042. Sequences restart every calendar year.
func (s *service) NextContractNumber(ctx context.Context, clubID, year int) (string, error) {
	c, err := s.GetClubByID(ctx, clubID)
	if err != nil {
		return "", err
	}

	seq, err := s.repo.NextContractSequence(ctx, clubID, year)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%d-%06d", c.ContractNumberPrefix, year, seq), nil
}

func parseTaxRate(raw, fallback string) (decimal.Decimal, error) {
	if raw == "" {
		raw = fallback
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validationf("invalid tax rate %q", raw)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, apperr.Validationf("tax rate must be between 0 and 1, got %s", rate)
	}
	return rate, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
