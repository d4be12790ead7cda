package club

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *Club) (*Club, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Club), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Club), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]Club, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Club), args.Error(1)
}

func (m *MockRepository) UpdatePolicy(ctx context.Context, id int, taxRate *string, noticePeriodDays, coolingOffDays *int) (*Club, error) {
	args := m.Called(ctx, id, taxRate, noticePeriodDays, coolingOffDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Club), args.Error(1)
}

func (m *MockRepository) NextContractSequence(ctx context.Context, clubID, year int) (int, error) {
	args := m.Called(ctx, clubID, year)
	return args.Int(0), args.Error(1)
}

func TestService_CreateClub(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *Club) bool {
			return c.Currency == "SAR" &&
				c.NoticePeriodDays == 30 &&
				c.CoolingOffDays == 7 &&
				c.TaxRate.Equal(decimal.RequireFromString("0.15")) &&
				c.ContractNumberPrefix == "LYQ"
		})).Return(&Club{ID: 1, Name: "Downtown"}, nil)

		created, err := service.CreateClub(context.Background(), CreateClubRequest{
			Name: "Downtown",
			City: "Riyadh",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, created.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid tax rate rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo)

		_, err := service.CreateClub(context.Background(), CreateClubRequest{
			Name:    "Downtown",
			City:    "Riyadh",
			TaxRate: "1.5",
		})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestService_GetClubByID(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, 999).Return(nil, sql.ErrNoRows)

	_, err := service.GetClubByID(context.Background(), 999)

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	mockRepo.AssertExpectations(t)
}

func TestService_NextContractNumber(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, 1).Return(&Club{ID: 1, ContractNumberPrefix: "LYQ"}, nil)
	mockRepo.On("NextContractSequence", mock.Anything, 1, 2026).Return(42, nil)

	number, err := service.NextContractNumber(context.Background(), 1, 2026)

	assert.NoError(t, err)
	assert.Equal(t, "LYQ-2026-000042", number)
	mockRepo.AssertExpectations(t)
}
