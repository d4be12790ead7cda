package planchange

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

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

// @Summary      Preview a plan change
// @Description  Classification and proration math for switching plans, nothing persisted.
// @Tags         plan-changes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Param        request body planchange.ChangePlanRequest true "Change payload"
// @Success      200 {object} planchange.ChangePreview
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/plan-change/preview [post]
func (h *Handler) Preview(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	preview, err := h.service.Preview(c.Request.Context(), memberID, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary      Change plan
// @Description  Switches the subscription to another plan, immediately or at period end depending on the proration mode.
// @Tags         plan-changes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Param        request body planchange.ChangePlanRequest true "Change payload"
// @Success      200 {object} planchange.ChangeResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/plan-change [post]
func (h *Handler) Execute(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Execute(c.Request.Context(), memberID, id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Get the pending scheduled change
// @Tags         plan-changes
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} planchange.ScheduledPlanChange
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/plan-change/scheduled [get]
func (h *Handler) GetPendingScheduled(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sc, err := h.service.GetPendingScheduled(c.Request.Context(), memberID, id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sc)
}

// @Summary      Cancel a scheduled change
// @Tags         plan-changes
// @Produce      json
// @Security     BearerAuth
// @Param        changeID path int true "Scheduled change ID"
// @Success      200 {object} planchange.ScheduledPlanChange
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /plan-changes/scheduled/{changeID} [delete]
func (h *Handler) CancelScheduled(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("changeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid change ID"})
		return
	}
	memberID, _ := auth.GetMemberID(c)

	sc, err := h.service.CancelScheduled(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, sc)
}

// @Summary      List plan change history
// @Tags         plan-changes
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {array} planchange.PlanChangeHistory
// @Router       /subscriptions/{subID}/plan-change/history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	id, ok := h.subscriptionID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	history, err := h.service.ListHistory(c.Request.Context(), memberID, id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
