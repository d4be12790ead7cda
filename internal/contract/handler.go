package contract

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

func (h *Handler) contractID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("contractID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid contract ID"})
		return 0, false
	}
	return id, true
}

// @Summary      Create a contract
// @Description  Staff-only: wraps a subscription in a membership contract. Fees are locked at creation through the plan's pricing tier.
// @Tags         admin,contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body contract.CreateContractRequest true "Contract payload"
// @Success      201 {object} contract.MembershipContract
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/contracts [post]
func (h *Handler) Create(c *gin.Context) {
	clubID, _ := auth.GetClubID(c)

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), clubID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List my contracts
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} contract.MembershipContract
// @Router       /contracts [get]
func (h *Handler) ListMine(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	contracts, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts)
}

// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Success      200 {object} contract.MembershipContract
// @Failure      404 {object} api.ErrorResponse
// @Router       /contracts/{contractID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	contract, err := h.service.GetOwned(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// @Summary      Sign a contract
// @Description  Member signature activates a pending contract.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Param        request body contract.SignRequest false "Signature payload"
// @Success      200 {object} contract.MembershipContract
// @Failure      409 {object} api.ErrorResponse
// @Router       /contracts/{contractID}/sign [post]
func (h *Handler) Sign(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	var req SignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	contract, err := h.service.Sign(c.Request.Context(), id, memberID, req.SignatureData)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// @Summary      Approve a contract
// @Description  Staff countersignature on a member contract.
// @Tags         admin,contracts
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Success      200 {object} contract.MembershipContract
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/contracts/{contractID}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}
	staffID, _ := auth.GetStaffID(c)

	contract, err := h.service.Approve(c.Request.Context(), id, staffID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// @Summary      Cancel within cooling-off
// @Description  Voids the contract with no fee while the cooling-off window is open.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Param        request body contract.CoolingOffCancelRequest true "Cancellation payload"
// @Success      200 {object} contract.MembershipContract
// @Failure      409 {object} api.ErrorResponse
// @Router       /contracts/{contractID}/cooling-off-cancel [post]
func (h *Handler) CancelWithinCoolingOff(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	var req CoolingOffCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	contract, err := h.service.CancelWithinCoolingOff(c.Request.Context(), id, memberID, req.Reason)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// @Summary      Preview the early termination fee
// @Description  What cancelling today would cost, without changing anything.
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Success      200 {object} contract.FeePreview
// @Failure      404 {object} api.ErrorResponse
// @Router       /contracts/{contractID}/termination-fee [get]
func (h *Handler) PreviewTerminationFee(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	preview, err := h.service.PreviewTerminationFee(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary      Suspend a contract
// @Tags         admin,contracts
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Success      200 {object} contract.MembershipContract
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/contracts/{contractID}/suspend [post]
func (h *Handler) Suspend(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	contract, err := h.service.Suspend(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// @Summary      Reactivate a suspended contract
// @Description  Restores the status the contract held before suspension.
// @Tags         admin,contracts
// @Produce      json
// @Security     BearerAuth
// @Param        contractID path int true "Contract ID"
// @Success      200 {object} contract.MembershipContract
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/contracts/{contractID}/reactivate [post]
func (h *Handler) Reactivate(c *gin.Context) {
	id, ok := h.contractID(c)
	if !ok {
		return
	}

	contract, err := h.service.Reactivate(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}
