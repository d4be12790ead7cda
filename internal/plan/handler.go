package plan

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

// @Summary      Create a membership plan
// @Description  Staff-only: add a plan to the authenticated staff's club catalog
// @Tags         admin,plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.CreatePlanRequest true "Plan payload"
// @Success      201 {object} plan.MembershipPlan
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /admin/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	clubID, exists := auth.GetClubID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.CreatePlan(c.Request.Context(), clubID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List plans
// @Description  Active plans of the authenticated member's club, cheapest first.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} plan.MembershipPlan
// @Failure      401 {object} api.ErrorResponse
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	clubID, exists := auth.GetClubID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	activeOnly := c.DefaultQuery("include_inactive", "false") != "true"

	plans, err := h.service.ListPlans(c.Request.Context(), clubID, activeOnly)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// @Summary      Get a plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Plan ID"
// @Success      200 {object} plan.MembershipPlan
// @Failure      404 {object} api.ErrorResponse
// @Router       /plans/{planID} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	p, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Deactivate a plan
// @Description  Staff-only: hide a plan from new signups. Existing contracts keep their snapshots.
// @Tags         admin,plans
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Plan ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/plans/{planID} [delete]
func (h *Handler) DeactivatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	if err := h.service.DeactivatePlan(c.Request.Context(), id); err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "plan deactivated"})
}

// @Summary      Add a pricing tier
// @Description  Staff-only: per-term discount or fee override for a plan
// @Tags         admin,plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Plan ID"
// @Param        request body plan.CreatePricingTierRequest true "Tier payload"
// @Success      201 {object} plan.ContractPricingTier
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/plans/{planID}/tiers [post]
func (h *Handler) CreateTier(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	var req CreatePricingTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.CreateTier(c.Request.Context(), planID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List pricing tiers
// @Description  Tiers for a plan with effective monthly fee and savings computed.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        planID path int true "Plan ID"
// @Success      200 {array} plan.PricingTierView
// @Failure      404 {object} api.ErrorResponse
// @Router       /plans/{planID}/tiers [get]
func (h *Handler) ListTiers(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	views, err := h.service.ListTiers(c.Request.Context(), planID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
