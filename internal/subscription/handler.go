package subscription

import (
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) subscriptionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return 0, false
	}
	return id, true
}

// @Summary      Create a subscription
// @Description  Enrolls the authenticated member under a plan. Starts pending payment unless start_immediate.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreateSubscriptionRequest true "Subscription payload"
// @Success      201 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)
	clubID, _ := auth.GetClubID(c)

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.service.Create(c.Request.Context(), memberID, clubID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// @Summary      List my subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.Subscription
// @Router       /subscriptions [get]
func (h *Handler) ListMine(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	subs, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Get a subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{subID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sub, err := h.service.GetOwned(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Freeze a subscription
// @Description  Pauses the membership. Requires freeze days remaining.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/freeze [post]
func (h *Handler) Freeze(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sub, err := h.service.Freeze(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Unfreeze a subscription
// @Description  Resumes the membership and extends the end date by the frozen days.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/unfreeze [post]
func (h *Handler) Unfreeze(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sub, err := h.service.Unfreeze(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Use a class
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      422 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/use-class [post]
func (h *Handler) UseClass(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sub, err := h.service.UseClass(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Use a guest pass
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} subscription.Subscription
// @Failure      422 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/use-guest-pass [post]
func (h *Handler) UseGuestPass(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sub, err := h.service.UseGuestPass(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Renew a subscription
// @Description  Staff-only: extend an active or expired subscription to a new end date.
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Param        request body subscription.RenewRequest true "Renewal payload"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/subscriptions/{subID}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	newEndDate, err := time.Parse("2006-01-02", req.NewEndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "new_end_date must be YYYY-MM-DD"})
		return
	}

	sub, err := h.service.Renew(c.Request.Context(), id, newEndDate)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Confirm payment
// @Description  Staff-only: activates a pending-payment subscription.
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Param        request body subscription.ConfirmPaymentRequest true "Payment payload"
// @Success      200 {object} subscription.Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/subscriptions/{subID}/confirm-payment [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount is not a valid number"})
		return
	}

	sub, err := h.service.ConfirmPayment(c.Request.Context(), id, amount)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
