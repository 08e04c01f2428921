package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the profile persistence operations used by the conversation,
// the delivery scheduler and the admin commands.
// Every method is a single atomic statement.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetActiveProfile returns the active profile for chatID, or nil, nil if none exists.
	GetActiveProfile(ctx context.Context, chatID int64) (*Profile, error)

	// SaveProfile inserts or replaces the profile keyed by its chat ID and marks it active.
	SaveProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile removes the profile row. It reports whether a row existed.
	DeleteProfile(ctx context.Context, chatID int64) (bool, error)

	// GetProfilesDue lists active profiles not yet delivered on day (YYYY-MM-DD).
	GetProfilesDue(ctx context.Context, day string) ([]*Profile, error)

	// MarkDelivered stamps the profile as delivered on day.
	MarkDelivered(ctx context.Context, chatID int64, day string) error

	// GetStats summarizes the users table relative to day.
	GetStats(ctx context.Context, day string) (*Stats, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    time.Now,
	}
}

const profileColumns = `chat_id, name, birthday, language, profession, hobbies, sex, created_at, last_horoscope_date, is_active`

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetActiveProfile retrieves the active profile for a chat.
func (s *sqlxStore) GetActiveProfile(ctx context.Context, chatID int64) (*Profile, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM users WHERE chat_id = ? AND is_active = 1`

	err := s.db.GetContext(ctx, &profile, query, chatID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No active profile found", "chat_id", chatID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching profile",
			"chat_id", chatID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get profile for chat %d: %w", chatID, err)
	}

	return &profile, nil
}

// SaveProfile writes the whole profile in one INSERT OR REPLACE.
func (s *sqlxStore) SaveProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if profile.ChatID == 0 {
		return fmt.Errorf("profile must have a non-zero chat_id")
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now().UTC()
	}
	profile.IsActive = true

	query := `
        INSERT OR REPLACE INTO users (` + profileColumns + `)
        VALUES (:chat_id, :name, :birthday, :language, :profession, :hobbies, :sex, :created_at, :last_horoscope_date, :is_active);
    `

	if _, err := s.db.NamedExecContext(ctx, query, profile); err != nil {
		s.logger.ErrorContext(ctx, "Error saving profile", "chat_id", profile.ChatID, "error", err)
		return fmt.Errorf("failed to save profile for chat %d: %w", profile.ChatID, err)
	}

	s.logger.InfoContext(ctx, "Profile saved", "chat_id", profile.ChatID, "language", profile.Language)
	return nil
}

// DeleteProfile hard-deletes the profile row.
func (s *sqlxStore) DeleteProfile(ctx context.Context, chatID int64) (bool, error) {
	if chatID == 0 {
		return false, fmt.Errorf("chat_id cannot be zero")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE chat_id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting profile", "chat_id", chatID, "error", err)
		return false, fmt.Errorf("failed to delete profile for chat %d: %w", chatID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not read affected rows after delete", "chat_id", chatID, "error", err)
		return false, nil
	}

	s.logger.InfoContext(ctx, "Profile deleted", "chat_id", chatID, "existed", rows > 0)
	return rows > 0, nil
}

// GetProfilesDue lists the active profiles whose last delivery is not day.
func (s *sqlxStore) GetProfilesDue(ctx context.Context, day string) ([]*Profile, error) {
	if day == "" {
		return nil, fmt.Errorf("day cannot be empty")
	}

	query := `SELECT ` + profileColumns + ` FROM users
              WHERE is_active = 1 AND (last_horoscope_date IS NULL OR last_horoscope_date <> ?)
              ORDER BY chat_id`

	var profiles []*Profile
	if err := s.db.SelectContext(ctx, &profiles, query, day); err != nil {
		s.logger.ErrorContext(ctx, "Error listing due profiles", "day", day, "error", err)
		return nil, fmt.Errorf("failed to list profiles due on %s: %w", day, err)
	}

	s.logger.DebugContext(ctx, "Listed due profiles", "day", day, "count", len(profiles))
	return profiles, nil
}

// MarkDelivered stamps last_horoscope_date for one chat.
func (s *sqlxStore) MarkDelivered(ctx context.Context, chatID int64, day string) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}
	if day == "" {
		return fmt.Errorf("day cannot be empty")
	}

	result, err := s.db.ExecContext(ctx, `UPDATE users SET last_horoscope_date = ? WHERE chat_id = ?`, day, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error stamping delivery", "chat_id", chatID, "day", day, "error", err)
		return fmt.Errorf("failed to mark chat %d delivered on %s: %w", chatID, day, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		// The profile was reset while its message was in flight.
		s.logger.WarnContext(ctx, "Delivery stamp matched no profile", "chat_id", chatID, "day", day)
	}
	return nil
}

// GetStats counts profiles.
func (s *sqlxStore) GetStats(ctx context.Context, day string) (*Stats, error) {
	query := `
        SELECT COUNT(*) AS total,
               COALESCE(SUM(CASE WHEN is_active = 1 THEN 1 ELSE 0 END), 0) AS active,
               COALESCE(SUM(CASE WHEN last_horoscope_date = ? THEN 1 ELSE 0 END), 0) AS delivered_today
        FROM users`

	var stats Stats
	if err := s.db.GetContext(ctx, &stats, query, day); err != nil {
		s.logger.ErrorContext(ctx, "Error reading profile stats", "error", err)
		return nil, fmt.Errorf("failed to read profile stats: %w", err)
	}
	return &stats, nil
}

// RunSQLMaintenance performs database maintenance (VACUUM).
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
