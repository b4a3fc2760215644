package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/videoqa/internal/repository"
	_ "modernc.org/sqlite"
)

// Fixed-width UTC layout so created_at sorts lexically in chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens the database file at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := RunSQLiteMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (r *SQLiteRepository) InsertVideo(ctx context.Context, v repository.NewVideo) (*repository.Video, error) {
	createdAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO videos (url, title, description, transcript, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (url) DO NOTHING`,
		v.URL, v.Title, v.Description, v.Transcript, createdAt.Format(sqliteTimeLayout))
	if err != nil {
		return nil, unavailable("insert video", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, unavailable("insert video", err)
	}
	if affected == 0 {
		return nil, repository.ErrDuplicateVideo
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, unavailable("insert video", err)
	}
	return &repository.Video{
		ID:          id,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Transcript:  v.Transcript,
		CreatedAt:   createdAt,
	}, nil
}

func (r *SQLiteRepository) ListVideos(ctx context.Context) ([]repository.Video, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, unavailable("list videos", err)
	}
	return collectSQLiteVideos(rows)
}

func (r *SQLiteRepository) FindVideosContaining(ctx context.Context, substring string) ([]repository.Video, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE instr(lower(transcript), lower(?)) > 0
		 ORDER BY created_at DESC, id DESC`,
		substring)
	if err != nil {
		return nil, unavailable("find videos", err)
	}
	return collectSQLiteVideos(rows)
}

func (r *SQLiteRepository) GetVideo(ctx context.Context, id int64) (*repository.Video, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	v, err := scanSQLiteVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, unavailable("get video", err)
	}
	return v, nil
}

func (r *SQLiteRepository) CountVideos(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n); err != nil {
		return 0, unavailable("count videos", err)
	}
	return n, nil
}

func (r *SQLiteRepository) InsertConversation(ctx context.Context, c repository.NewConversation) (*repository.Conversation, error) {
	createdAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (question, answer, video_id, timestamp, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Question, c.Answer, c.VideoID, c.Timestamp, createdAt.Format(sqliteTimeLayout))
	if err != nil {
		return nil, unavailable("insert conversation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, unavailable("insert conversation", err)
	}
	return &repository.Conversation{
		ID:        id,
		Question:  c.Question,
		Answer:    c.Answer,
		VideoID:   c.VideoID,
		Timestamp: c.Timestamp,
		CreatedAt: createdAt,
	}, nil
}

func (r *SQLiteRepository) ListConversations(ctx context.Context, limit int) ([]repository.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, answer, video_id, timestamp, created_at
		 FROM conversations ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, unavailable("list conversations", err)
	}
	defer rows.Close()
	var list []repository.Conversation
	for rows.Next() {
		var (
			conv      repository.Conversation
			videoID   sql.NullInt64
			timestamp sql.NullString
			createdAt string
		)
		if err := rows.Scan(&conv.ID, &conv.Question, &conv.Answer, &videoID, &timestamp, &createdAt); err != nil {
			return nil, unavailable("scan conversation", err)
		}
		if videoID.Valid {
			conv.VideoID = &videoID.Int64
		}
		if timestamp.Valid {
			conv.Timestamp = &timestamp.String
		}
		if conv.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse conversation created_at %q: %w", createdAt, err)
		}
		list = append(list, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list conversations", err)
	}
	return list, nil
}

func (r *SQLiteRepository) Close() {
	_ = r.db.Close()
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteVideo(row sqlScanner) (*repository.Video, error) {
	var (
		v         repository.Video
		createdAt string
	)
	if err := row.Scan(&v.ID, &v.URL, &v.Title, &v.Description, &v.Transcript, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse video created_at %q: %w", createdAt, err)
	}
	v.CreatedAt = t
	return &v, nil
}

func collectSQLiteVideos(rows *sql.Rows) ([]repository.Video, error) {
	defer rows.Close()
	var list []repository.Video
	for rows.Next() {
		v, err := scanSQLiteVideo(rows)
		if err != nil {
			return nil, unavailable("scan video", err)
		}
		list = append(list, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read videos", err)
	}
	return list, nil
}
