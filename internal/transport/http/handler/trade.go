package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/transport/http/middleware"
	"github.com/ErlanBelekov/trade-tally/internal/usecase"
	"github.com/gin-gonic/gin"
)

// createdLayout renders the trade's creation date, e.g. "Fri Mar 01 2024".
const createdLayout = "Mon Jan 02 2006"

type tradeUsecaser interface {
	CreateTrade(ctx context.Context, input usecase.CreateTradeInput) (*domain.Trade, error)
	GetTrade(ctx context.Context, id string) (*domain.TradeView, error)
	ListTrades(ctx context.Context) ([]*domain.TradeView, error)
	ListUserTrades(ctx context.Context, userID string) ([]*domain.TradeView, error)
	UpdateTrade(ctx context.Context, id, callerID string, patch domain.TradePatch) error
	DeleteTrade(ctx context.Context, id, callerID string) error
}

type TradeHandler struct {
	tradeUsecase tradeUsecaser
	logger       *slog.Logger
}

func NewTradeHandler(tradeUsecase tradeUsecaser, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{tradeUsecase: tradeUsecase, logger: logger.With("component", "trade_handler")}
}

// createTradeRequest fields are declared in the order missing fields are
// reported. partnerId is an alias of tradePartner.
type createTradeRequest struct {
	User               string     `json:"user"               binding:"required"`
	TradePartner       string     `json:"tradePartner"       binding:"required_without=PartnerID"`
	Date               *tradeDate `json:"date"               binding:"required"`
	ServiceDescription string     `json:"serviceDescription" binding:"required"`
	Amount             *float64   `json:"amount"             binding:"required"`
	PartnerID          string     `json:"partnerId"`
}

type updateTradeRequest struct {
	Date               *tradeDate `json:"date"`
	ServiceDescription *string    `json:"serviceDescription"`
	Amount             *float64   `json:"amount"`
}

type tradeResponse struct {
	TradeID                string    `json:"tradeId"`
	UserID                 string    `json:"userId"`
	TradePartnerID         string    `json:"tradePartnerId"`
	TradePartnerFullName   string    `json:"tradePartnerFullName"`
	TradePartnerProfession string    `json:"tradePartnerProfession"`
	Date                   time.Time `json:"date"`
	ServiceDescription     string    `json:"serviceDescription"`
	Amount                 float64   `json:"amount"`
	Created                string    `json:"created"`
	Updated                time.Time `json:"updated"`
}

type listTradesResponse struct {
	Trades []tradeResponse `json:"trades"`
}

func toTradeResponse(v *domain.TradeView) tradeResponse {
	return tradeResponse{
		TradeID:                v.ID,
		UserID:                 v.UserID,
		TradePartnerID:         v.PartnerID,
		TradePartnerFullName:   v.PartnerFullName(),
		TradePartnerProfession: v.PartnerProfession,
		Date:                   v.Date,
		ServiceDescription:     v.ServiceDescription,
		Amount:                 v.Amount,
		Created:                v.CreatedAt.Format(createdLayout),
		Updated:                v.UpdatedAt,
	}
}

func toListResponse(views []*domain.TradeView) listTradesResponse {
	resp := listTradesResponse{Trades: make([]tradeResponse, 0, len(views))}
	for _, v := range views {
		resp.Trades = append(resp.Trades, toTradeResponse(v))
	}
	return resp
}

// POST /trades
func (h *TradeHandler) Create(ctx *gin.Context) {
	var req createTradeRequest
	if err := bindJSON(ctx, &req); err != nil {
		writeError(ctx, h.logger, "create trade", http.StatusBadRequest, err)
		return
	}

	partnerID := req.TradePartner
	if partnerID == "" {
		partnerID = req.PartnerID
	}

	_, err := h.tradeUsecase.CreateTrade(ctx.Request.Context(), usecase.CreateTradeInput{
		CallerID:           ctx.GetString(middleware.KeyUserID),
		UserID:             req.User,
		PartnerID:          partnerID,
		Date:               req.Date.Time,
		ServiceDescription: req.ServiceDescription,
		Amount:             *req.Amount,
	})
	if err != nil {
		writeError(ctx, h.logger, "create trade", http.StatusBadRequest, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Trade created"})
}

// GET /trades
func (h *TradeHandler) List(ctx *gin.Context) {
	views, err := h.tradeUsecase.ListTrades(ctx.Request.Context())
	if err != nil {
		writeError(ctx, h.logger, "list trades", http.StatusBadRequest, err)
		return
	}
	ctx.JSON(http.StatusOK, toListResponse(views))
}

// GET /trades/user/:id
func (h *TradeHandler) ListByUser(ctx *gin.Context) {
	views, err := h.tradeUsecase.ListUserTrades(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, "list user trades", http.StatusBadRequest, err)
		return
	}
	ctx.JSON(http.StatusOK, toListResponse(views))
}

// GET /trades/:id
func (h *TradeHandler) GetByID(ctx *gin.Context) {
	view, err := h.tradeUsecase.GetTrade(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		writeError(ctx, h.logger, "get trade", http.StatusBadRequest, err)
		return
	}
	ctx.JSON(http.StatusOK, toTradeResponse(view))
}

// PUT /trades/:id
// An empty body is a no-op update.
func (h *TradeHandler) Update(ctx *gin.Context) {
	var req updateTradeRequest
	if err := bindOptionalJSON(ctx, &req); err != nil {
		writeError(ctx, h.logger, "update trade", http.StatusBadRequest, err)
		return
	}

	patch := domain.TradePatch{
		ServiceDescription: req.ServiceDescription,
		Amount:             req.Amount,
	}
	if req.Date != nil {
		patch.Date = &req.Date.Time
	}

	err := h.tradeUsecase.UpdateTrade(ctx.Request.Context(), ctx.Param("id"), ctx.GetString(middleware.KeyUserID), patch)
	if err != nil {
		writeError(ctx, h.logger, "update trade", http.StatusBadRequest, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DELETE /trades/:id
func (h *TradeHandler) Delete(ctx *gin.Context) {
	err := h.tradeUsecase.DeleteTrade(ctx.Request.Context(), ctx.Param("id"), ctx.GetString(middleware.KeyUserID))
	if err != nil {
		writeError(ctx, h.logger, "delete trade", http.StatusBadRequest, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
