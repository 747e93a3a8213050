package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TradeRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewTradeRepository(pool *pgxpool.Pool, logger *slog.Logger) *TradeRepository {
	return &TradeRepository{pool: pool, logger: logger.With("component", "trade_repo")}
}

// Create verifies both parties exist and inserts the trade in a single
// transaction. FOR SHARE keeps the parties from disappearing before commit.
func (r *TradeRepository) Create(ctx context.Context, t *domain.Trade) (*domain.Trade, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	parties := []struct {
		id       string
		location string
	}{
		{t.UserID, "user"},
		{t.PartnerID, "tradePartner"},
	}
	for _, p := range parties {
		var id string
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR SHARE`, p.id).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
				return nil, domain.NewValidationError(p.location, "Unknown user")
			}
			return nil, fmt.Errorf("lock party %s: %w", p.location, err)
		}
	}

	var created domain.Trade
	err = tx.QueryRow(ctx, `
		INSERT INTO trades (user_id, partner_id, date, service_description, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, partner_id, date, service_description, amount, created_at, updated_at`,
		t.UserID, t.PartnerID, t.Date, t.ServiceDescription, t.Amount,
	).Scan(
		&created.ID, &created.UserID, &created.PartnerID, &created.Date,
		&created.ServiceDescription, &created.Amount, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, mapTradeWriteError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &created, nil
}

func (r *TradeRepository) GetByID(ctx context.Context, id string) (*domain.TradeView, error) {
	query, args, err := selectTradeViews().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	v, err := scanTradeView(r.pool.QueryRow(ctx, query, args...))
	if err != nil && invalidText(err) {
		return nil, domain.ErrTradeNotFound
	}
	return v, err
}

func (r *TradeRepository) List(ctx context.Context) ([]*domain.TradeView, error) {
	return r.queryViews(ctx, selectTradeViews())
}

func (r *TradeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TradeView, error) {
	return r.queryViews(ctx, selectTradeViews().Where(sqEitherParty(userID)))
}

func (r *TradeRepository) Update(ctx context.Context, id string, patch domain.TradePatch) error {
	query, args, err := buildTradeUpdate(id, patch)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if invalidText(err) {
			return domain.ErrTradeNotFound
		}
		return fmt.Errorf("update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (r *TradeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		if invalidText(err) {
			return domain.ErrTradeNotFound
		}
		return fmt.Errorf("delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTradeNotFound
	}
	return nil
}

func (r *TradeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM trades`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return n, nil
}

func (r *TradeRepository) queryViews(ctx context.Context, b sq.SelectBuilder) ([]*domain.TradeView, error) {
	query, args, err := b.OrderBy("t.date DESC", "t.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	views := []*domain.TradeView{}
	for rows.Next() {
		v, err := scanTradeView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	r.logger.DebugContext(ctx, "listed trades", "count", len(views))
	return views, nil
}

// buildTradeUpdate sets only the fields present in patch. updated_at is
// always touched so an empty patch still detects a missing trade.
func buildTradeUpdate(id string, patch domain.TradePatch) (string, []any, error) {
	b := psql.Update("trades").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	if patch.Date != nil {
		b = b.Set("date", *patch.Date)
	}
	if patch.ServiceDescription != nil {
		b = b.Set("service_description", *patch.ServiceDescription)
	}
	if patch.Amount != nil {
		b = b.Set("amount", *patch.Amount)
	}
	return b.ToSql()
}

// selectTradeViews joins each trade to its partner's current profile.
func selectTradeViews() sq.SelectBuilder {
	return psql.Select(
		"t.id", "t.user_id", "t.partner_id", "t.date", "t.service_description", "t.amount",
		"t.created_at", "t.updated_at",
		"p.first_name", "p.last_name", "p.profession",
	).
		From("trades t").
		Join("users p ON p.id = t.partner_id")
}

func sqEitherParty(userID string) sq.Or {
	return sq.Or{
		sq.Eq{"t.user_id": userID},
		sq.Eq{"t.partner_id": userID},
	}
}

func scanTradeView(row rowScanner) (*domain.TradeView, error) {
	var v domain.TradeView
	err := row.Scan(
		&v.ID, &v.UserID, &v.PartnerID, &v.Date, &v.ServiceDescription, &v.Amount,
		&v.CreatedAt, &v.UpdatedAt,
		&v.PartnerFirstName, &v.PartnerLastName, &v.PartnerProfession,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, fmt.Errorf("scan trade: %w", err)
	}
	return &v, nil
}

func mapTradeWriteError(err error) error {
	if constraint, ok := foreignKeyViolation(err); ok {
		switch constraint {
		case constraintTradeUser:
			return domain.NewValidationError("user", "Unknown user")
		case constraintTradePartner:
			return domain.NewValidationError("tradePartner", "Unknown user")
		}
	}
	if constraint, ok := checkViolation(err); ok && constraint == constraintDistinct {
		return domain.NewValidationError("tradePartner", "A trade needs two different users")
	}
	return fmt.Errorf("insert trade: %w", err)
}
