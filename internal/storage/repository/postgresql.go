// Package repository реализует хранилище почтовой системы на PostgreSQL:
// клиентов, почтовые отделения, письма и посылки. Письма и посылки
// хранятся в параллельных таблицах и обслуживаются общим кодом,
// параметризованным видом отправления.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/letters-packages/internal/lib/retry"
	"github.com/magabrotheeeer/letters-packages/internal/lib/sl"
	"github.com/magabrotheeeer/letters-packages/internal/models"
)

// Storage инкапсулирует соединение с PostgreSQL и построитель запросов.
type Storage struct {
	DB      *sqlx.DB
	builder squirrel.StatementBuilderType
	log     *slog.Logger
}

// ConnectPolicy правила повторного подключения при старте.
var ConnectPolicy = retry.Policy{
	MaxRetries:  5,
	Backoff:     retry.NewBackoff(500*time.Millisecond, 5*time.Second, true),
	ShouldRetry: isRetriable,
}

// New открывает подключение к PostgreSQL. Ошибки соединения повторяются по ConnectPolicy.
func New(ctx context.Context, storageConnectionString string, log *slog.Logger) (*Storage, error) {
	const op = "storage.New"

	db, err := sqlx.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = retry.Do(ctx, ConnectPolicy, func() error {
		return db.PingContext(ctx)
	}, func(err error, attempt int, wait time.Duration) {
		log.Warn("database is not ready, retrying",
			sl.Err(err), slog.Int("attempt", attempt), slog.Duration("wait", wait))
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return NewWithDB(db, log), nil
}

// NewWithDB оборачивает уже открытое соединение.
func NewWithDB(db *sqlx.DB, log *slog.Logger) *Storage {
	return &Storage{
		DB:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log:     log.With(slog.String("component", "storage")),
	}
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что миграции применены.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables WHERE table_name = 'letters'
	)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage.CheckDatabaseReady: %w", err)
	}
	if !exists {
		return errors.New("storage.CheckDatabaseReady: required table letters missing")
	}
	return nil
}

func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

func (s *Storage) toSQL(op string, q squirrel.Sqlizer) (string, []any, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%s: build query: %w", op, err)
	}
	s.log.Debug("build query", slog.String("op", op), sl.Query(query, args))
	return query, args, nil
}

// get выполняет запрос одной записи, отсутствие строки превращается в models.ErrNotFound.
func (s *Storage) get(ctx context.Context, op, model string, dest any, q squirrel.Sqlizer) error {
	if err := checkContext(ctx, op); err != nil {
		return err
	}
	query, args, err := s.toSQL(op, q)
	if err != nil {
		return err
	}
	if err := s.DB.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, models.NewError(model, models.ErrNotFound))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) selectAll(ctx context.Context, op string, dest any, q squirrel.Sqlizer) error {
	if err := checkContext(ctx, op); err != nil {
		return err
	}
	query, args, err := s.toSQL(op, q)
	if err != nil {
		return err
	}
	if err := s.DB.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// insert выполняет INSERT ... RETURNING id.
func (s *Storage) insert(ctx context.Context, op string, q squirrel.InsertBuilder) (int64, error) {
	if err := checkContext(ctx, op); err != nil {
		return 0, err
	}
	query, args, err := s.toSQL(op, q.Suffix("RETURNING id"))
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.DB.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, constraintError(err))
	}
	return id, nil
}

// exec выполняет UPDATE или DELETE одной записи; если запись не затронута, возвращает models.ErrNotFound.
func (s *Storage) exec(ctx context.Context, op, model string, q squirrel.Sqlizer) error {
	if err := checkContext(ctx, op); err != nil {
		return err
	}
	query, args, err := s.toSQL(op, q)
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, constraintError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.NewError(model, models.ErrNotFound))
	}
	return nil
}

// missing возвращает идентификаторы из ids, которых нет в таблице.
func (s *Storage) missing(ctx context.Context, op, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	q := s.builder.Select("id").From(table).Where(squirrel.Eq{"id": ids})
	if err := s.selectAll(ctx, op, &found, q); err != nil {
		return nil, err
	}

	exists := make(map[int64]struct{}, len(found))
	for _, id := range found {
		exists[id] = struct{}{}
	}
	var out []int64
	for _, id := range ids {
		if _, ok := exists[id]; !ok {
			out = append(out, id)
			exists[id] = struct{}{}
		}
	}
	return out, nil
}
