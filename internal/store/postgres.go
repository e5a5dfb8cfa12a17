// Package store persists postings in Postgres, keyed by link.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/posting"
)

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	id            BIGSERIAL PRIMARY KEY,
	job_title     TEXT NOT NULL,
	company       TEXT,
	location      TEXT,
	experience    TEXT,
	compensation  TEXT,
	link          TEXT UNIQUE NOT NULL,
	description   TEXT,
	title_score   INTEGER NOT NULL DEFAULT 0,
	skill_score   INTEGER NOT NULL DEFAULT 0,
	experience_ok BOOLEAN NOT NULL DEFAULT TRUE,
	status        TEXT NOT NULL DEFAULT 'not_applied',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// pool is the subset of pgxpool.Pool the store uses.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

type Store struct {
	pool   pool
	logger *zap.Logger
}

// New creates and verifies a pgxpool-backed store.
func New(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Init creates the postings table when missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating postings table: %w", err)
	}
	return nil
}

// Upsert inserts postings, skipping duplicates by link (first write wins) and
// postings missing required fields. A skipped posting never aborts the batch;
// per-item failures are logged and counted instead.
func (s *Store) Upsert(ctx context.Context, postings []posting.Posting) (inserted, skipped int, err error) {
	for _, p := range postings {
		if !p.Persistable() {
			skipped++
			s.logger.Warn("skipping posting without required fields",
				zap.String("title", p.Title),
				zap.String("link", p.Link),
			)
			continue
		}

		tag, err := s.pool.Exec(ctx,
			`INSERT INTO postings
			 (job_title, company, location, experience, compensation, link, description, title_score, skill_score, experience_ok)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (link) DO NOTHING`,
			p.Title, p.Company, p.Location, p.Experience, p.Compensation,
			p.Link, p.Description, p.TitleScore, p.SkillScore, p.ExperienceOK,
		)
		if err != nil {
			skipped++
			s.logger.Warn("skipping posting on insert error",
				zap.String("link", p.Link),
				zap.Error(err),
			)
			continue
		}

		if tag.RowsAffected() == 0 {
			skipped++
			s.logger.Debug("skipping already stored posting",
				zap.String("link", p.Link),
			)
		} else {
			inserted++
		}
	}

	return inserted, skipped, nil
}

// LoadRecent returns up to limit stored postings, most recently inserted
// first.
func (s *Store) LoadRecent(ctx context.Context, limit int) ([]posting.Posting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_title, company, location, experience, compensation, link, description,
		        title_score, skill_score, experience_ok, status
		 FROM postings
		 ORDER BY id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query postings: %w", err)
	}
	defer rows.Close()

	var postings []posting.Posting
	for rows.Next() {
		var p posting.Posting
		if err := rows.Scan(
			&p.Title, &p.Company, &p.Location, &p.Experience, &p.Compensation,
			&p.Link, &p.Description, &p.TitleScore, &p.SkillScore, &p.ExperienceOK, &p.Status,
		); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		postings = append(postings, p)
	}

	return postings, rows.Err()
}

// SetStatus updates the application status of the posting with the given
// link.
func (s *Store) SetStatus(ctx context.Context, link, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE postings SET status = $2 WHERE link = $1`, link, status)
	if err != nil {
		return fmt.Errorf("update posting status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no stored posting with link %q", link)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}
