package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/notify"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errInvalidCredentials = "Invalid credentials"
	errInvalidJWT         = "Invalid JWT"
	errUsernameTaken      = "The username already exists"
	errEmailTaken         = "The email already exists"
	errInvalidID          = "The id is not valid"
	errTradeNotFound      = "Trade not found"
	errNotAParty          = "You are not a party to this trade"
)

const (
	reasonValidation     = "ValidationError"
	reasonAuthentication = "AuthenticationError"
	reasonForbidden      = "ForbiddenError"
	reasonNotFound       = "NotFoundError"
	reasonInternal       = "InternalServerError"
)

type errorResponse struct {
	Code     int    `json:"code"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type providerErrorResponse struct {
	Error *notify.ProviderError `json:"error"`
}

func abortWithError(c *gin.Context, status int, reason, message, location string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Code:     status,
		Reason:   reason,
		Message:  message,
		Location: location,
	})
}

// writeError renders err as an error body. validationStatus is the status
// used for *domain.ValidationError, which differs between registration
// (422) and trade input (400). Anything unrecognised is logged and
// answered with 500.
func writeError(c *gin.Context, logger *slog.Logger, op string, validationStatus int, err error) {
	var (
		verr *domain.ValidationError
		cerr *domain.CredentialsError
		perr *notify.ProviderError
	)

	switch {
	case errors.As(err, &verr):
		abortWithError(c, validationStatus, reasonValidation, verr.Message, verr.Location)
	case errors.As(err, &cerr):
		abortWithError(c, http.StatusUnauthorized, reasonAuthentication, errInvalidCredentials, cerr.Location)
	case errors.Is(err, domain.ErrUsernameTaken):
		abortWithError(c, http.StatusUnprocessableEntity, reasonValidation, errUsernameTaken, "username")
	case errors.Is(err, domain.ErrEmailTaken):
		abortWithError(c, http.StatusUnprocessableEntity, reasonValidation, errEmailTaken, "email")
	case errors.Is(err, domain.ErrInvalidID):
		abortWithError(c, http.StatusBadRequest, reasonValidation, errInvalidID, "id")
	case errors.Is(err, domain.ErrTradeNotFound):
		abortWithError(c, http.StatusNotFound, reasonNotFound, errTradeNotFound, "id")
	case errors.Is(err, domain.ErrForbidden):
		abortWithError(c, http.StatusForbidden, reasonForbidden, errNotAParty, "")
	case errors.As(err, &perr):
		logger.WarnContext(c.Request.Context(), op, "provider", perr.Provider, "status", perr.Status, "error", err)
		c.AbortWithStatusJSON(providerStatus(perr.Status), providerErrorResponse{Error: perr})
	default:
		logger.ErrorContext(c.Request.Context(), op, "error", err)
		abortWithError(c, http.StatusInternalServerError, reasonInternal, errInternalServer, "")
	}
}

func providerStatus(status int) int {
	if status < 400 || status > 599 {
		return http.StatusBadGateway
	}
	return status
}
