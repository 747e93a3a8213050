package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/ErlanBelekov/trade-tally/internal/repository"
	"github.com/google/uuid"
)

type TradeUsecase struct {
	repo repository.TradeRepository
}

func NewTradeUsecase(repo repository.TradeRepository) *TradeUsecase {
	return &TradeUsecase{repo: repo}
}

type CreateTradeInput struct {
	// CallerID is the authenticated user. It must be one of the parties.
	CallerID           string
	UserID             string
	PartnerID          string
	Date               time.Time
	ServiceDescription string
	Amount             float64
}

func (u *TradeUsecase) CreateTrade(ctx context.Context, input CreateTradeInput) (*domain.Trade, error) {
	if !validID(input.UserID) {
		return nil, domain.NewValidationError("user", "The id is not valid")
	}
	if !validID(input.PartnerID) {
		return nil, domain.NewValidationError("tradePartner", "The id is not valid")
	}
	if input.UserID == input.PartnerID {
		return nil, domain.NewValidationError("tradePartner", "A trade needs two different users")
	}
	description := strings.TrimSpace(input.ServiceDescription)
	if description == "" {
		return nil, domain.NewValidationError("serviceDescription", "Cannot be empty")
	}

	trade := &domain.Trade{
		UserID:             input.UserID,
		PartnerID:          input.PartnerID,
		Date:               input.Date,
		ServiceDescription: description,
		Amount:             input.Amount,
	}
	if !trade.HasParty(input.CallerID) {
		return nil, domain.ErrForbidden
	}

	created, err := u.repo.Create(ctx, trade)
	if err != nil {
		return nil, fmt.Errorf("create trade: %w", err)
	}
	metrics.TradeMutationsTotal.WithLabelValues("create").Inc()

	return created, nil
}

func (u *TradeUsecase) GetTrade(ctx context.Context, id string) (*domain.TradeView, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}
	view, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trade: %w", err)
	}
	return view, nil
}

func (u *TradeUsecase) ListTrades(ctx context.Context) ([]*domain.TradeView, error) {
	views, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return views, nil
}

// ListUserTrades returns the trades userID initiated or is the partner of.
func (u *TradeUsecase) ListUserTrades(ctx context.Context, userID string) ([]*domain.TradeView, error) {
	if !validID(userID) {
		return nil, domain.ErrInvalidID
	}
	views, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user trades: %w", err)
	}
	return views, nil
}

// UpdateTrade applies patch when callerID is a party to the trade. An
// empty patch only checks access.
func (u *TradeUsecase) UpdateTrade(ctx context.Context, id, callerID string, patch domain.TradePatch) error {
	if _, err := u.authorize(ctx, id, callerID); err != nil {
		return err
	}

	if patch.ServiceDescription != nil {
		description := strings.TrimSpace(*patch.ServiceDescription)
		if description == "" {
			return domain.NewValidationError("serviceDescription", "Cannot be empty")
		}
		patch.ServiceDescription = &description
	}
	if patch.Empty() {
		return nil
	}

	if err := u.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update trade: %w", err)
	}
	metrics.TradeMutationsTotal.WithLabelValues("update").Inc()
	return nil
}

func (u *TradeUsecase) DeleteTrade(ctx context.Context, id, callerID string) error {
	if _, err := u.authorize(ctx, id, callerID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	metrics.TradeMutationsTotal.WithLabelValues("delete").Inc()
	return nil
}

func (u *TradeUsecase) authorize(ctx context.Context, id, callerID string) (*domain.TradeView, error) {
	view, err := u.GetTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.HasParty(callerID) {
		return nil, domain.ErrForbidden
	}
	return view, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
