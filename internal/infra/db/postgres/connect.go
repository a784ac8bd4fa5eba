package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_history (
	analysis_id  TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	report       TEXT,
	error        TEXT
);`

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

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
