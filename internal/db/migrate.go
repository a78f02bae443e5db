package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillOutcome(db); err != nil {
		return fmt.Errorf("backfilling question outcomes: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS chat_history (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		author     TEXT NOT NULL CHECK(author IN ('user','assistant')),
		text       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history(session_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS dialogue_sessions (
		session_id             TEXT PRIMARY KEY,
		clarification_attempts INTEGER NOT NULL DEFAULT 0 CHECK(clarification_attempts >= 0),
		updated_at             TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS questions (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		question    TEXT NOT NULL,
		response    TEXT NOT NULL,
		used_remote INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_questions_created ON questions(created_at)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id          TEXT PRIMARY KEY,
		question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		type        TEXT NOT NULL
		            CHECK(type IN ('thumbs_up','thumbs_down','report_issue')),
		comment     TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback(created_at)`,

	`CREATE TABLE IF NOT EXISTS knowledge_gaps (
		id                  TEXT PRIMARY KEY,
		pattern             TEXT NOT NULL UNIQUE,
		frequency           INTEGER NOT NULL DEFAULT 1,
		avg_response_length REAL NOT NULL DEFAULT 0,
		needs_improvement   INTEGER NOT NULL DEFAULT 1,
		last_asked          TEXT NOT NULL,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_progress (
		id              TEXT PRIMARY KEY,
		session_id      TEXT NOT NULL,
		process_id      TEXT NOT NULL,
		current_step    INTEGER NOT NULL DEFAULT 1 CHECK(current_step >= 1),
		completed_steps TEXT NOT NULL DEFAULT '[]',
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE(session_id, process_id)
	)`,

	// Record which engine branch produced each logged answer.
	`ALTER TABLE questions ADD COLUMN outcome TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillOutcome labels questions logged before the outcome column
// existed. Remote answers are "remote"; the rest are "unknown".
// Idempotent: only rows with an empty outcome are touched.
func migrateBackfillOutcome(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE questions SET outcome = CASE WHEN used_remote = 1 THEN 'remote' ELSE 'unknown' END
		WHERE outcome = ''`); err != nil {
		return fmt.Errorf("updating outcomes: %w", err)
	}
	return nil
}
