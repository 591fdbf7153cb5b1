package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	if ife, ok := IsInsufficientFunds(err); ok {
		RespondError(c, http.StatusPaymentRequired, ife.Error())
		return
	}

	switch {
	case errors.Is(err, ErrPostNotFound),
		errors.Is(err, ErrWalletNotFound),
		errors.Is(err, ErrTopUpOrderNotFound),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrRecordNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidTier),
		errors.Is(err, ErrInvalidInterval),
		errors.Is(err, ErrPostNotPending),
		errors.Is(err, ErrFeaturedWindowMissing),
		errors.Is(err, ErrRejectReasonRequired),
		errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotPostOwner):
		RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConcurrentModification),
		errors.Is(err, ErrDuplicateReference):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrLedgerWriteFailure):
		log.Printf("Ledger write failure: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
