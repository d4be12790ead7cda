package wallet

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/AminElhag/Liyaqa-sub011/internal/api"
	"github.com/AminElhag/Liyaqa-sub011/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Get my wallet balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} wallet.Wallet
// @Router       /wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	w, err := h.service.GetBalance(c.Request.Context(), memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      List my wallet transactions
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {array} wallet.Transaction
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), memberID, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// @Summary      Credit my wallet
// @Description  Tops up the balance, e.g. after an out-of-band payment.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body wallet.CreditRequest true "Credit payload"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/credit [post]
func (h *Handler) Credit(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount is not a valid number"})
		return
	}

	w, err := h.service.Credit(c.Request.Context(), memberID, amount, req.Description)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}

// @Summary      Adjust a member's wallet
// @Description  Staff-only signed correction: positive credits, negative debits.
// @Tags         admin,wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        memberID path int true "Member ID"
// @Param        request body wallet.AdjustRequest true "Adjustment payload"
// @Success      200 {object} wallet.Wallet
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/members/{memberID}/wallet/adjust [post]
func (h *Handler) Adjust(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	net, err := decimal.NewFromString(req.Net)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "net is not a valid number"})
		return
	}

	w, err := h.service.Adjust(c.Request.Context(), memberID, net, req.Description, nil)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, w)
}
