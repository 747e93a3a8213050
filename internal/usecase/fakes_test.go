package usecase_test

import (
	"context"
	"strings"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
)

type fakeUserRepo struct {
	create         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByUsername func(ctx context.Context, username string) (*domain.User, error)
	usernameExists func(ctx context.Context, username string) (bool, error)
	list           func(ctx context.Context) ([]*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByUsername(ctx, username)
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.usernameExists(ctx, username)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx)
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	return 0, nil
}

type fakeTradeRepo struct {
	create     func(ctx context.Context, trade *domain.Trade) (*domain.Trade, error)
	getByID    func(ctx context.Context, id string) (*domain.TradeView, error)
	list       func(ctx context.Context) ([]*domain.TradeView, error)
	listByUser func(ctx context.Context, userID string) ([]*domain.TradeView, error)
	update     func(ctx context.Context, id string, patch domain.TradePatch) error
	delete     func(ctx context.Context, id string) error
}

func (r *fakeTradeRepo) Create(ctx context.Context, trade *domain.Trade) (*domain.Trade, error) {
	return r.create(ctx, trade)
}

func (r *fakeTradeRepo) GetByID(ctx context.Context, id string) (*domain.TradeView, error) {
	return r.getByID(ctx, id)
}

func (r *fakeTradeRepo) List(ctx context.Context) ([]*domain.TradeView, error) {
	return r.list(ctx)
}

func (r *fakeTradeRepo) ListByUser(ctx context.Context, userID string) ([]*domain.TradeView, error) {
	return r.listByUser(ctx, userID)
}

func (r *fakeTradeRepo) Update(ctx context.Context, id string, patch domain.TradePatch) error {
	return r.update(ctx, id, patch)
}

func (r *fakeTradeRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *fakeTradeRepo) Count(context.Context) (int64, error) {
	return 0, nil
}

// plainHasher stands in for bcrypt so tests stay fast.
type plainHasher struct {
	compares int
}

func (h *plainHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (h *plainHasher) Compare(hash, plaintext string) (bool, error) {
	h.compares++
	return strings.TrimPrefix(hash, "hashed:") == plaintext, nil
}
