package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hilal/internal/domain"
	"hilal/internal/infra/metrics"
)

// DB описывает часть pgxpool.Pool, используемую репозиторием.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres хранит журнал разосланных азанов.
type Postgres struct {
	pool DB
	now  func() time.Time
}

var _ domain.FiredStore = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool DB) *Postgres {
	return &Postgres{pool: pool, now: time.Now}
}

// DispatchRecord описывает строку журнала рассылок.
type DispatchRecord struct {
	Date    domain.Date
	Prayer  domain.Prayer
	FiredAt time.Time
}

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// EnsureSchema создаёт таблицу журнала, если её нет.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS adhan_dispatches (
    prayer_date DATE NOT NULL,
    prayer      TEXT NOT NULL,
    fired_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (prayer_date, prayer)
)`)
	metrics.ObserveNetworkRequest("postgres", "adhan_dispatches_schema", "adhan_dispatches", start, err)
	if err != nil {
		return fmt.Errorf("создание схемы: %w", err)
	}
	return nil
}

// Acquire вставляет отметку о рассылке и возвращает true, если её ещё не было.
func (p *Postgres) Acquire(ctx context.Context, key domain.FiredKey) (bool, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	res, err := p.pool.Exec(ctx, `
INSERT INTO adhan_dispatches (prayer_date, prayer, fired_at)
VALUES ($1, $2, $3)
ON CONFLICT (prayer_date, prayer) DO NOTHING
`, key.Date.String(), key.Prayer.String(), p.now().UTC())
	metrics.ObserveNetworkRequest("postgres", "adhan_dispatches_acquire", "adhan_dispatches", start, err)
	if err != nil {
		return false, fmt.Errorf("отметка рассылки %s: %w", key, err)
	}
	return res.RowsAffected() > 0, nil
}

// ListRecent возвращает последние рассылки, новые первыми.
func (p *Postgres) ListRecent(ctx context.Context, limit int) ([]DispatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT to_char(prayer_date, 'YYYY-MM-DD'), prayer, fired_at
FROM adhan_dispatches
ORDER BY fired_at DESC
LIMIT $1
`, limit)
	metrics.ObserveNetworkRequest("postgres", "adhan_dispatches_list", "adhan_dispatches", start, err)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала: %w", err)
	}
	defer rows.Close()

	var out []DispatchRecord
	for rows.Next() {
		var (
			rawDate, rawPrayer string
			rec                DispatchRecord
		)
		if err := rows.Scan(&rawDate, &rawPrayer, &rec.FiredAt); err != nil {
			return nil, fmt.Errorf("чтение строки журнала: %w", err)
		}
		if rec.Date, err = domain.ParseDate(rawDate); err != nil {
			return nil, err
		}
		if rec.Prayer, err = domain.ParsePrayer(rawPrayer); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
