package repository

import (
	"context"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
)

type TradeRepository interface {
	// Create checks both parties exist and inserts the trade in one
	// transaction. A missing party yields a *domain.ValidationError.
	Create(ctx context.Context, trade *domain.Trade) (*domain.Trade, error)
	GetByID(ctx context.Context, id string) (*domain.TradeView, error)
	List(ctx context.Context) ([]*domain.TradeView, error)
	// ListByUser returns trades where userID is either party.
	ListByUser(ctx context.Context, userID string) ([]*domain.TradeView, error)
	Update(ctx context.Context, id string, patch domain.TradePatch) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
