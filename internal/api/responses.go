package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AminElhag/Liyaqa-sub011/internal/apperr"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Kind  string `json:"kind,omitempty" example:"invalid_state_transition"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error writes a business-rule rejection with the HTTP status its kind maps
// to. Unknown errors become opaque 500s so internals never leak.
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: kind.String()})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Kind: kind.String()})
	case apperr.KindInvalidTransition, apperr.KindConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Kind: kind.String()})
	case apperr.KindInsufficient:
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: kind.String()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
