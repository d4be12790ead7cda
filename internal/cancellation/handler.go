package cancellation

import (
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) requestID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request ID"})
		return 0, false
	}
	return id, true
}

// @Summary      Preview a cancellation
// @Description  Notice window, effective date and termination fee for cancelling today. Nothing is created.
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} cancellation.CancellationPreview
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/cancellation-preview [get]
func (h *Handler) Preview(c *gin.Context) {
	subID, err := strconv.Atoi(c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}
	memberID, _ := auth.GetMemberID(c)

	preview, err := h.service.Preview(c.Request.Context(), memberID, subID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// @Summary      Request a cancellation
// @Description  Starts the notice period and presents retention offers. Within cooling-off the cancellation completes immediately with no fee.
// @Tags         cancellations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body cancellation.CreateCancellationRequest true "Cancellation payload"
// @Success      201 {object} cancellation.CancellationView
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /cancellations [post]
func (h *Handler) Create(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	var req CreateCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := h.service.Create(c.Request.Context(), memberID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary      List my cancellation requests
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} cancellation.CancellationRequest
// @Router       /cancellations [get]
func (h *Handler) ListMine(c *gin.Context) {
	memberID, _ := auth.GetMemberID(c)

	requests, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// @Summary      Get a cancellation request
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        requestID path int true "Request ID"
// @Success      200 {object} cancellation.CancellationRequest
// @Failure      404 {object} api.ErrorResponse
// @Router       /cancellations/{requestID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	request, err := h.service.GetByID(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// @Summary      Withdraw a cancellation request
// @Description  Stops the notice period; the membership continues unchanged.
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        requestID path int true "Request ID"
// @Success      200 {object} cancellation.CancellationRequest
// @Failure      409 {object} api.ErrorResponse
// @Router       /cancellations/{requestID}/withdraw [post]
func (h *Handler) Withdraw(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	request, err := h.service.Withdraw(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// @Summary      Waive the termination fee
// @Description  Staff-only goodwill waiver on an open cancellation request.
// @Tags         admin,cancellations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestID path int true "Request ID"
// @Param        request body cancellation.WaiveFeeRequest true "Waiver payload"
// @Success      200 {object} cancellation.CancellationRequest
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/cancellations/{requestID}/waive-fee [post]
func (h *Handler) WaiveFee(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	staffID, _ := auth.GetStaffID(c)

	var req WaiveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	request, err := h.service.WaiveFee(c.Request.Context(), id, staffID, req.Reason)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// @Summary      List retention offers
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        requestID path int true "Request ID"
// @Success      200 {array} cancellation.RetentionOffer
// @Failure      404 {object} api.ErrorResponse
// @Router       /cancellations/{requestID}/offers [get]
func (h *Handler) ListOffers(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	offers, err := h.service.ListOffers(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}

func (h *Handler) offerID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("offerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid offer ID"})
		return 0, false
	}
	return id, true
}

// @Summary      Accept a retention offer
// @Description  Applies the offer's benefit and saves the cancellation. Sibling offers are declined.
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        offerID path int true "Offer ID"
// @Success      200 {object} cancellation.RetentionOffer
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /offers/{offerID}/accept [post]
func (h *Handler) AcceptOffer(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	offer, err := h.service.AcceptOffer(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// @Summary      Decline a retention offer
// @Tags         cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        offerID path int true "Offer ID"
// @Success      200 {object} cancellation.RetentionOffer
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /offers/{offerID}/decline [post]
func (h *Handler) DeclineOffer(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	offer, err := h.service.DeclineOffer(c.Request.Context(), id, memberID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// @Summary      Submit an exit survey
// @Description  One survey per cancellation request, immutable once submitted.
// @Tags         cancellations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestID path int true "Request ID"
// @Param        request body cancellation.SubmitSurveyRequest true "Survey payload"
// @Success      201 {object} cancellation.ExitSurvey
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /cancellations/{requestID}/survey [post]
func (h *Handler) SubmitSurvey(c *gin.Context) {
	id, ok := h.requestID(c)
	if !ok {
		return
	}
	memberID, _ := auth.GetMemberID(c)

	var req SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	survey, err := h.service.SubmitSurvey(c.Request.Context(), id, memberID, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, survey)
}

// @Summary      Cancellation analytics
// @Description  Reason breakdown, outcome counts, retention rate and NPS stats for the staff club.
// @Tags         admin,cancellations
// @Produce      json
// @Security     BearerAuth
// @Param        since query string false "Start date (YYYY-MM-DD), defaults to 90 days ago"
// @Success      200 {object} cancellation.AnalyticsReport
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/cancellations/analytics [get]
func (h *Handler) Analytics(c *gin.Context) {
	clubID, _ := auth.GetClubID(c)

	since := time.Now().UTC().AddDate(0, 0, -90)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid since date, expected YYYY-MM-DD"})
			return
		}
		since = parsed
	}

	report, err := h.service.Analytics(c.Request.Context(), clubID, since)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
