package catalog

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateRecording(ctx context.Context, rec *Recording) error
	ListRecordings(ctx context.Context, limit int) ([]*Recording, error)
	ListSessionRecordings(ctx context.Context, sessionID string) ([]*Recording, error)
	CountRecordings(ctx context.Context) (int, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateRecording(ctx context.Context, rec *Recording) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recordings (id, session_id, seq, path, frames, fps, opened_at, closed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SessionID, rec.Seq, rec.Path, rec.Frames, rec.FPS,
		rec.OpenedAt.Format(time.RFC3339), rec.ClosedAt.Format(time.RFC3339), rec.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListRecordings(ctx context.Context, limit int) ([]*Recording, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, seq, path, frames, fps, opened_at, closed_at, created_at
		FROM recordings ORDER BY created_at DESC, seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRecordings(rows)
}

func (r *SQLiteRepository) ListSessionRecordings(ctx context.Context, sessionID string) ([]*Recording, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, seq, path, frames, fps, opened_at, closed_at, created_at
		FROM recordings WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRecordings(rows)
}

func (r *SQLiteRepository) CountRecordings(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recordings").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) scanRecordings(rows *sql.Rows) ([]*Recording, error) {
	var recs []*Recording
	for rows.Next() {
		var rec Recording
		var openedAt, closedAt, createdAt string

		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &rec.Path, &rec.Frames, &rec.FPS,
			&openedAt, &closedAt, &createdAt); err != nil {
			return nil, err
		}
		rec.OpenedAt, _ = time.Parse(time.RFC3339, openedAt)
		rec.ClosedAt, _ = time.Parse(time.RFC3339, closedAt)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
