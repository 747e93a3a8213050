package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/trade-tally/internal/usecase"
	"github.com/gin-gonic/gin"
)

type inviteUsecaser interface {
	Send(ctx context.Context, input usecase.InviteInput) (string, error)
}

type InviteHandler struct {
	inviteUsecase inviteUsecaser
	logger        *slog.Logger
}

func NewInviteHandler(inviteUsecase inviteUsecaser, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{inviteUsecase: inviteUsecase, logger: logger.With("component", "invite_handler")}
}

type inviteRequest struct {
	Phone        string `json:"phone"`
	Email        string `json:"email"        binding:"omitempty,email"`
	FirstName    string `json:"firstName"    binding:"required"`
	UserFullName string `json:"userFullName" binding:"required"`
}

// POST /invite
func (h *InviteHandler) Send(c *gin.Context) {
	var req inviteRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, h.logger, "send invite", http.StatusBadRequest, err)
		return
	}

	sid, err := h.inviteUsecase.Send(c.Request.Context(), usecase.InviteInput{
		Phone:        req.Phone,
		Email:        req.Email,
		FirstName:    req.FirstName,
		UserFullName: req.UserFullName,
	})
	if err != nil {
		writeError(c, h.logger, "send invite", http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messageSid": sid})
}
