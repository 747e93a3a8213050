package httptransport_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/google/uuid"
)

// memStore backs both repositories so trade views can join partner data.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	trades map[string]*domain.Trade
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*domain.User{}, trades: map[string]*domain.Trade{}}
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	out := *u
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	r.s.users[out.ID] = &out
	cp := out
	return &cp, nil
}

func (r memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r memUserRepo) List(context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUserRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

type memTradeRepo struct{ s *memStore }

func (r memTradeRepo) Create(_ context.Context, t *domain.Trade) (*domain.Trade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.UserID]; !ok {
		return nil, domain.NewValidationError("user", "Unknown user")
	}
	if _, ok := r.s.users[t.PartnerID]; !ok {
		return nil, domain.NewValidationError("tradePartner", "Unknown user")
	}
	out := *t
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	r.s.trades[out.ID] = &out
	cp := out
	return &cp, nil
}

func (r memTradeRepo) view(t *domain.Trade) *domain.TradeView {
	v := &domain.TradeView{Trade: *t}
	if p, ok := r.s.users[t.PartnerID]; ok {
		v.PartnerFirstName = p.FirstName
		v.PartnerLastName = p.LastName
		v.PartnerProfession = p.Profession
	}
	return v
}

func (r memTradeRepo) GetByID(_ context.Context, id string) (*domain.TradeView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trades[id]
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	return r.view(t), nil
}

func (r memTradeRepo) List(ctx context.Context) ([]*domain.TradeView, error) {
	return r.filter(func(*domain.Trade) bool { return true }), nil
}

func (r memTradeRepo) ListByUser(_ context.Context, userID string) ([]*domain.TradeView, error) {
	return r.filter(func(t *domain.Trade) bool { return t.HasParty(userID) }), nil
}

func (r memTradeRepo) filter(keep func(*domain.Trade) bool) []*domain.TradeView {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.TradeView
	for _, t := range r.s.trades {
		if keep(t) {
			out = append(out, r.view(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r memTradeRepo) Update(_ context.Context, id string, p domain.TradePatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trades[id]
	if !ok {
		return domain.ErrTradeNotFound
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.ServiceDescription != nil {
		t.ServiceDescription = *p.ServiceDescription
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (r memTradeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trades[id]; !ok {
		return domain.ErrTradeNotFound
	}
	delete(r.s.trades, id)
	return nil
}

func (r memTradeRepo) Count(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.trades)), nil
}
