package club

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AminElhag/Liyaqa-sub011/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a club
// @Description  Admin-only: register a new club with its contract policy defaults
// @Tags         admin,clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body club.CreateClubRequest true "Club payload"
// @Success      201 {object} club.Club
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/clubs [post]
func (h *Handler) CreateClub(c *gin.Context) {
	var req CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.CreateClub(c.Request.Context(), req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List clubs
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} club.Club
// @Failure      401 {object} api.ErrorResponse
// @Router       /clubs [get]
func (h *Handler) ListClubs(c *gin.Context) {
	clubs, err := h.service.GetAllClubs(c.Request.Context())
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, clubs)
}

// @Summary      Get a club
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Success      200 {object} club.Club
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /clubs/{clubID} [get]
func (h *Handler) GetClub(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}

	found, err := h.service.GetClubByID(c.Request.Context(), id)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// @Summary      Update club policy
// @Description  Admin-only: change the tax rate, notice period or cooling-off window
// @Tags         admin,clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        clubID path int true "Club ID"
// @Param        request body club.UpdatePolicyRequest true "Policy fields to change"
// @Success      200 {object} club.Club
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/clubs/{clubID}/policy [patch]
func (h *Handler) UpdatePolicy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid club ID"})
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := h.service.UpdatePolicy(c.Request.Context(), id, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
