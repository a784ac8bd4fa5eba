package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	analysis_id  TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	completed_at TEXT,
	report       TEXT,
	error        TEXT
);`

func Connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite handles one writer at a time
	db.SetMaxOpenConns(1)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx2, schema); err != nil {
		return nil, err
	}
	return db, nil
}
