package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetBalance(ctx context.Context, memberID int) (*Wallet, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) HasSufficientBalance(ctx context.Context, memberID int, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, memberID, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) ListTransactions(ctx context.Context, memberID, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockService) Credit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error) {
	args := m.Called(ctx, memberID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) Debit(ctx context.Context, memberID int, amount decimal.Decimal, description string) (*Wallet, error) {
	args := m.Called(ctx, memberID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) ChargeSubscription(ctx context.Context, memberID, subscriptionID int, amount decimal.Decimal, description string) (*Wallet, error) {
	args := m.Called(ctx, memberID, subscriptionID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) Refund(ctx context.Context, memberID int, amount decimal.Decimal, description string, ref *Reference) (*Wallet, error) {
	args := m.Called(ctx, memberID, amount, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) Adjust(ctx context.Context, memberID int, net decimal.Decimal, description string, ref *Reference) (*Wallet, error) {
	args := m.Called(ctx, memberID, net, description, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("member_id", 5)
	})
	r.GET("/wallet", h.GetBalance)
	r.POST("/wallet/credit", h.Credit)
	r.POST("/admin/members/:memberID/wallet/adjust", h.Adjust)
	return r
}

func TestHandler_GetBalance(t *testing.T) {
	mockSvc := new(MockService)
	router := setupRouter(mockSvc)

	mockSvc.On("GetBalance", mock.Anything, 5).
		Return(&Wallet{ID: 7, MemberID: 5, Balance: dec("42.50"), Currency: "SAR"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/wallet", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Wallet
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Balance.Equal(dec("42.50")))
}

func TestHandler_CreditRejectsBadAmount(t *testing.T) {
	mockSvc := new(MockService)
	router := setupRouter(mockSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/wallet/credit",
		strings.NewReader(`{"amount": "abc", "description": "top up"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Credit")
}

func TestHandler_Adjust(t *testing.T) {
	mockSvc := new(MockService)
	router := setupRouter(mockSvc)

	mockSvc.On("Adjust", mock.Anything, 9, dec("-25"), "correction", (*Reference)(nil)).
		Return(&Wallet{ID: 3, MemberID: 9, Balance: dec("-25")}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/members/9/wallet/adjust",
		strings.NewReader(`{"net": "-25", "description": "correction"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
