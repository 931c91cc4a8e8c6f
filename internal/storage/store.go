package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/evmeet/meetbot/core/logger"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("storage: record not found")

// Store exposes record-level access to the Postgres schema.
type Store struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, log: logger.Storage}
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM "user" WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// EnsureUser creates the user row on first contact, capturing the Telegram
// username. Existing rows are returned untouched.
func (s *Store) EnsureUser(ctx context.Context, id uuid.UUID, username string) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var uname *string
	if username != "" {
		uname = &username
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO "user" (id, username) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`, id, uname)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	s.log.Info("user provisioned",
		slog.String("event", "user.ensure"),
		slog.String("user_id", id.String()),
	)
	return s.GetUser(ctx, id)
}

// GetEvent loads an event by id.
func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	var e Event
	err := s.db.GetContext(ctx, &e, `SELECT * FROM event WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// ListEventsByOrganizer returns the events created by one user.
func (s *Store) ListEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Event, error) {
	var events []Event
	err := s.db.SelectContext(ctx, &events,
		`SELECT * FROM event WHERE organizer_id = $1 ORDER BY date_time`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event owned by the caller. Deleting someone else's
// event is reported as ErrNotFound to avoid leaking record existence.
func (s *Store) DeleteEvent(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM event WHERE id = $1 AND organizer_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTeam loads a team by id.
func (s *Store) GetTeam(ctx context.Context, id uuid.UUID) (*Team, error) {
	var t Team
	err := s.db.GetContext(ctx, &t, `SELECT * FROM team WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}

// ListTeams returns every team.
func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := s.db.SelectContext(ctx, &teams, `SELECT * FROM team ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

// ListTeamsByCreator returns the teams created by one user.
func (s *Store) ListTeamsByCreator(ctx context.Context, creatorID uuid.UUID) ([]Team, error) {
	var teams []Team
	err := s.db.SelectContext(ctx, &teams,
		`SELECT * FROM team WHERE creator_id = $1 ORDER BY name`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list teams by creator: %w", err)
	}
	return teams, nil
}

// DeleteTeam removes a team owned by the caller.
func (s *Store) DeleteTeam(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM team WHERE id = $1 AND creator_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// FeedbackEntry is a feedback row joined with its author's username.
type FeedbackEntry struct {
	Feedback
	Username *string `db:"username"`
}

// ListFeedback returns all feedback with author usernames, oldest first.
func (s *Store) ListFeedback(ctx context.Context) ([]FeedbackEntry, error) {
	var entries []FeedbackEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT f.*, u.username
		   FROM feedback f
		   LEFT JOIN "user" u ON u.id = f.user_id
		  ORDER BY f.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return entries, nil
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := s.db.SelectContext(ctx, &cats, `SELECT * FROM category ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// defaultCategories seeds the category table on first start.
var defaultCategories = []struct{ name, description string }{
	{"Sports", "Physical games and outdoor activity"},
	{"Music", "Concerts, jams, and listening sessions"},
	{"Tech", "Hack nights, talks, and workshops"},
	{"Art", "Exhibitions and creative meetups"},
	{"Education", "Courses, lectures, and study groups"},
	{"Networking", "Professional and social mixers"},
}

// SeedCategories inserts the default category set when the table is empty.
func (s *Store) SeedCategories(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM category`); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range defaultCategories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO category (id, name, description) VALUES ($1, $2, $3)`,
			uuid.New(), c.name, c.description)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	s.log.Info("categories seeded",
		slog.String("event", "category.seed"),
		slog.Int("count", len(defaultCategories)),
	)
	return nil
}

// RecordKind identifies which table a target token's record lives in.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordEvent
	RecordTeam
)

// ResolveRecord finds the table and owner of a record referenced by an
// edit/delete token. Target tokens carry only the id, so the kind is
// recovered by lookup.
func (s *Store) ResolveRecord(ctx context.Context, id uuid.UUID) (RecordKind, uuid.UUID, error) {
	if e, err := s.GetEvent(ctx, id); err == nil {
		return RecordEvent, e.OrganizerID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return RecordUnknown, uuid.Nil, err
	}
	if t, err := s.GetTeam(ctx, id); err == nil {
		return RecordTeam, t.CreatorID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return RecordUnknown, uuid.Nil, err
	}
	return RecordUnknown, uuid.Nil, ErrNotFound
}
