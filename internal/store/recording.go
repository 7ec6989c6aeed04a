package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Recording represents the metadata of one captured video file.
// EndedAt is nil while the recording is still in progress.
type Recording struct {
	ID        string
	Path      string
	Width     int
	Height    int
	FPS       float64
	Frames    int
	StartedAt time.Time
	EndedAt   *time.Time
}

// InProgress reports whether the recording has not been finished yet.
func (r *Recording) InProgress() bool {
	return r.EndedAt == nil
}

// RecordingRepository provides CRUD operations for recordings.
type RecordingRepository struct {
	db *sql.DB
}

// Recordings returns the recording repository for this store.
func (s *Store) Recordings() *RecordingRepository {
	return &RecordingRepository{db: s.db}
}

// Create inserts a new in-progress recording.
func (r *RecordingRepository) Create(rec *Recording) error {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO recordings (id, path, width, height, fps, frames, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Width, rec.Height, rec.FPS, rec.Frames, rec.StartedAt,
	)
	return err
}

// Finish marks a recording as complete and records its final frame count.
func (r *RecordingRepository) Finish(id string, frames int, endedAt time.Time) error {
	res, err := r.db.Exec(
		`UPDATE recordings SET frames = ?, ended_at = ? WHERE id = ?`,
		frames, endedAt, id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a recording by its ID.
func (r *RecordingRepository) GetByID(id string) (*Recording, error) {
	rec := &Recording{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, path, width, height, fps, frames, started_at, ended_at
		 FROM recordings WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Path, &rec.Width, &rec.Height, &rec.FPS, &rec.Frames, &rec.StartedAt, &ended)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		rec.EndedAt = &ended.Time
	}
	return rec, nil
}

// List returns all recordings, most recent first.
func (r *RecordingRepository) List() ([]*Recording, error) {
	rows, err := r.db.Query(
		`SELECT id, path, width, height, fps, frames, started_at, ended_at
		 FROM recordings ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recordings []*Recording
	for rows.Next() {
		rec := &Recording{}
		var ended sql.NullTime

		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Width, &rec.Height, &rec.FPS,
			&rec.Frames, &rec.StartedAt, &ended); err != nil {
			return nil, err
		}
		if ended.Valid {
			rec.EndedAt = &ended.Time
		}
		recordings = append(recordings, rec)
	}
	return recordings, rows.Err()
}

// Delete removes a recording row. The caller is responsible for removing
// the video file itself.
func (r *RecordingRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
