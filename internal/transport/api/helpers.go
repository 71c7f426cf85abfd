package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func getUserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentUserIDKey)
}

// int64Param aborts with 404 when the path parameter is not a positive id.
func int64Param(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, params any) bool {
	return checkBind(c, c.ShouldBindJSON(params))
}

func bindQuery(c *gin.Context, params any) bool {
	return checkBind(c, c.ShouldBindQuery(params))
}

// checkBind answers 422 with the failed fields on validation errors and 400 on malformed input.
func checkBind(c *gin.Context, bindErr error) bool {
	if bindErr == nil {
		return true
	}
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		fields := make(map[string]string, len(valErrs))
		for _, fieldErr := range valErrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
		return false
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
	return false
}

// abortWithServiceError maps service errors to statuses. Ledger rule violations carry their reason, provider
// failures stay private and get a generic retry message.
func abortWithServiceError(c *gin.Context, err error) {
	var (
		status  int
		errType = gin.ErrorTypePublic
	)
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOwnerConflict):
		status, errType = http.StatusForbidden, gin.ErrorTypePrivate
	case errors.Is(err, domain.ErrRecordNotFound):
		status, errType = http.StatusNotFound, gin.ErrorTypePrivate
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrWalletInactive),
		errors.Is(err, domain.ErrSellerNotOnboarded),
		errors.Is(err, domain.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrConcurrencyConflict):
		status, errType = http.StatusConflict, gin.ErrorTypePrivate
	case errors.Is(err, domain.ErrProviderTransient):
		status, errType = http.StatusServiceUnavailable, gin.ErrorTypePrivate
	case errors.Is(err, domain.ErrProviderPermanent):
		status, errType = http.StatusBadGateway, gin.ErrorTypePrivate
	default:
		status, errType = http.StatusInternalServerError, gin.ErrorTypePrivate
	}
	_ = c.AbortWithError(status, err).SetType(errType)
}
