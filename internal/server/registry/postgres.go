package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/dbx"
	"github.com/dmitrijs2005/zkpauth/internal/server/registry/migrations"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

const uniqueViolationCode = "23505"

// PostgresStore is the durable Store implementation. Compound
// read-modify-write sections run inside a transaction holding a row lock
// (SELECT ... FOR UPDATE), so per-user transitions are serialized while
// different usernames proceed in parallel. TakeAuthID relies on
// DELETE ... RETURNING for its remove-and-return atomicity.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database behind the pgx stdlib driver and runs
// the embedded schema migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return s, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

func (s *PostgresStore) CreateUser(ctx context.Context, rec *UserRecord) error {
	query := `
		INSERT INTO users (username, y1, y2, registered_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query,
		rec.Username, zkp.Serialize(rec.Y1), zkp.Serialize(rec.Y2), rec.RegisteredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return common.ErrAlreadyRegistered
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, username string) (*UserRecord, error) {
	row := s.db.QueryRowContext(ctx, selectUserQuery, username)
	return scanUser(row)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, username string, fn func(rec *UserRecord) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx, selectUserQuery+" FOR UPDATE", username)
		rec, err := scanUser(row)
		if err != nil {
			return err
		}

		if err := fn(rec); err != nil {
			return err
		}

		query := `
			UPDATE users
			SET session_token = $2, last_success_at = $3, last_challenge_at = $4,
			    failed_attempts = $5, pending_auth_id = $6, pending_r1 = $7,
			    pending_r2 = $8, pending_c = $9, pending_issued_at = $10
			WHERE username = $1`

		var (
			authID   sql.NullString
			r1, r2   []byte
			c        []byte
			issuedAt sql.NullTime
		)
		if rec.Pending != nil {
			authID = sql.NullString{String: rec.Pending.AuthID, Valid: true}
			r1 = zkp.Serialize(rec.Pending.R1)
			r2 = zkp.Serialize(rec.Pending.R2)
			c = zkp.Serialize(rec.Pending.C)
			issuedAt = sql.NullTime{Time: rec.Pending.IssuedAt, Valid: true}
		}

		_, err = tx.ExecContext(ctx, query,
			rec.Username, rec.SessionToken, nullTime(rec.LastSuccessAt), nullTime(rec.LastChallengeAt),
			rec.FailedAttempts, authID, r1, r2, c, issuedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) PutAuthID(ctx context.Context, authID, username string) error {
	query := `INSERT INTO auth_ids (auth_id, username) VALUES ($1, $2)`

	if _, err := s.db.ExecContext(ctx, query, authID, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) TakeAuthID(ctx context.Context, authID string) (string, error) {
	query := `DELETE FROM auth_ids WHERE auth_id = $1 RETURNING username`

	var username string
	err := s.db.QueryRowContext(ctx, query, authID).Scan(&username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return username, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

const selectUserQuery = `
	SELECT username, y1, y2, registered_at, session_token, last_success_at,
	       last_challenge_at, failed_attempts, pending_auth_id, pending_r1,
	       pending_r2, pending_c, pending_issued_at
	FROM users
	WHERE username = $1`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*UserRecord, error) {
	var (
		rec             UserRecord
		y1, y2          []byte
		sessionToken    string
		lastSuccessAt   sql.NullTime
		lastChallengeAt sql.NullTime
		authID          sql.NullString
		r1, r2, c       []byte
		issuedAt        sql.NullTime
	)

	err := row.Scan(&rec.Username, &y1, &y2, &rec.RegisteredAt, &sessionToken,
		&lastSuccessAt, &lastChallengeAt, &rec.FailedAttempts,
		&authID, &r1, &r2, &c, &issuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if rec.Y1, err = zkp.Deserialize(y1); err != nil {
		return nil, fmt.Errorf("corrupt y1 for %q: %w", rec.Username, err)
	}
	if rec.Y2, err = zkp.Deserialize(y2); err != nil {
		return nil, fmt.Errorf("corrupt y2 for %q: %w", rec.Username, err)
	}

	rec.SessionToken = sessionToken
	rec.LastSuccessAt = lastSuccessAt.Time
	rec.LastChallengeAt = lastChallengeAt.Time

	if authID.Valid {
		pending := &PendingChallenge{AuthID: authID.String, IssuedAt: issuedAt.Time}
		if pending.R1, err = zkp.Deserialize(r1); err != nil {
			return nil, fmt.Errorf("corrupt pending r1 for %q: %w", rec.Username, err)
		}
		if pending.R2, err = zkp.Deserialize(r2); err != nil {
			return nil, fmt.Errorf("corrupt pending r2 for %q: %w", rec.Username, err)
		}
		if pending.C, err = zkp.Deserialize(c); err != nil {
			return nil, fmt.Errorf("corrupt pending c for %q: %w", rec.Username, err)
		}
		rec.Pending = pending
	}

	return &rec, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
