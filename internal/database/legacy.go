package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
)

// legacyColumn is one row of pragma_table_info.
type legacyColumn struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

const createUsersNew = `
    CREATE TABLE users_new (
        chat_id INTEGER PRIMARY KEY,
        name TEXT NOT NULL,
        birthday TEXT NOT NULL,
        language TEXT NOT NULL CHECK (language IN ('LT', 'EN', 'RU', 'LV')),
        profession TEXT NOT NULL,
        hobbies TEXT NOT NULL,
        sex TEXT NOT NULL CHECK (sex IN ('moteris', 'vyras', 'woman', 'man', 'женщина', 'мужчина', 'sieviete', 'vīrietis')),
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        last_horoscope_date TEXT,
        is_active BOOLEAN NOT NULL DEFAULT 1
    );`

// Rows that would violate the new constraints, or that miss a profile field,
// are left behind. A stored profile is always complete.
const copyIntoUsersNew = `
    INSERT INTO users_new (chat_id, name, birthday, language, profession, hobbies, sex, created_at, last_horoscope_date, is_active)
    SELECT chat_id, TRIM(name), birthday, UPPER(language), TRIM(profession), TRIM(hobbies), sex,
           COALESCE(created_at, CURRENT_TIMESTAMP), CAST(last_horoscope_date AS TEXT), COALESCE(is_active, 1)
    FROM users
    WHERE TRIM(COALESCE(name, '')) <> '' AND TRIM(COALESCE(birthday, '')) <> ''
      AND TRIM(COALESCE(profession, '')) <> '' AND TRIM(COALESCE(hobbies, '')) <> ''
      AND UPPER(language) IN ('LT', 'EN', 'RU', 'LV')
      AND sex IN ('moteris', 'vyras', 'woman', 'man', 'женщина', 'мужчина', 'sieviete', 'vīrietis');`

// UpgradeLegacySchema rebuilds a users table written by older versions of the
// bot: one still carrying the dropped interests column, or one whose
// last_horoscope_date is declared as DATE. It is a no-op on a fresh database
// or one already in the current shape.
func UpgradeLegacySchema(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return errors.New("database connection is nil, cannot upgrade schema")
	}

	var columns []legacyColumn
	if err := db.SelectContext(ctx, &columns, `SELECT name, type FROM pragma_table_info('users')`); err != nil {
		return fmt.Errorf("failed to inspect users table: %w", err)
	}
	if !needsRebuild(columns) {
		return nil
	}

	slog.InfoContext(ctx, "Migrating legacy users table to the current schema", "columns", len(columns))

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin legacy migration transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				slog.WarnContext(ctx, "Error rolling back legacy migration", "error", rollbackErr)
			}
		}
	}()

	var total int
	if err := tx.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("failed to count legacy rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users_new`); err != nil {
		return fmt.Errorf("failed to drop stale users_new: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createUsersNew); err != nil {
		return fmt.Errorf("failed to create users_new: %w", err)
	}
	res, err := tx.ExecContext(ctx, copyIntoUsersNew)
	if err != nil {
		return fmt.Errorf("failed to copy legacy rows: %w", err)
	}
	copied, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DROP TABLE users`); err != nil {
		return fmt.Errorf("failed to drop legacy users table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE users_new RENAME TO users`); err != nil {
		return fmt.Errorf("failed to rename users_new: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit legacy migration: %w", err)
	}
	tx = nil

	slog.InfoContext(ctx, "Legacy users table migrated", "rows", total, "copied", copied, "skipped", int64(total)-copied)
	return nil
}

func needsRebuild(columns []legacyColumn) bool {
	for _, c := range columns {
		switch strings.ToLower(c.Name) {
		case "interests":
			return true
		case "last_horoscope_date":
			if !strings.EqualFold(c.Type, "TEXT") {
				return true
			}
		}
	}
	return false
}
