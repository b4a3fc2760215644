package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const videoColumns = `id, url, title, description, transcript, created_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertVideo(ctx context.Context, v repository.NewVideo) (*repository.Video, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO videos (url, title, description, transcript)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING `+videoColumns,
		v.URL, v.Title, v.Description, v.Transcript)
	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrDuplicateVideo
		}
		return nil, unavailable("insert video", err)
	}
	return video, nil
}

func (r *PostgresRepository) ListVideos(ctx context.Context) ([]repository.Video, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, unavailable("list videos", err)
	}
	return collectVideos(rows)
}

func (r *PostgresRepository) FindVideosContaining(ctx context.Context, substring string) ([]repository.Video, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+videoColumns+` FROM videos
		 WHERE strpos(lower(transcript), lower($1)) > 0
		 ORDER BY created_at DESC, id DESC`,
		substring)
	if err != nil {
		return nil, unavailable("find videos", err)
	}
	return collectVideos(rows)
}

func (r *PostgresRepository) GetVideo(ctx context.Context, id int64) (*repository.Video, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, unavailable("get video", err)
	}
	return video, nil
}

func (r *PostgresRepository) CountVideos(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&n); err != nil {
		return 0, unavailable("count videos", err)
	}
	return n, nil
}

func (r *PostgresRepository) InsertConversation(ctx context.Context, c repository.NewConversation) (*repository.Conversation, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO conversations (question, answer, video_id, timestamp)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, question, answer, video_id, timestamp, created_at`,
		c.Question, c.Answer, c.VideoID, c.Timestamp)
	var conv repository.Conversation
	if err := row.Scan(&conv.ID, &conv.Question, &conv.Answer, &conv.VideoID, &conv.Timestamp, &conv.CreatedAt); err != nil {
		return nil, unavailable("insert conversation", err)
	}
	return &conv, nil
}

func (r *PostgresRepository) ListConversations(ctx context.Context, limit int) ([]repository.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question, answer, video_id, timestamp, created_at
		 FROM conversations ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, unavailable("list conversations", err)
	}
	defer rows.Close()
	var list []repository.Conversation
	for rows.Next() {
		var conv repository.Conversation
		if err := rows.Scan(&conv.ID, &conv.Question, &conv.Answer, &conv.VideoID, &conv.Timestamp, &conv.CreatedAt); err != nil {
			return nil, unavailable("scan conversation", err)
		}
		list = append(list, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list conversations", err)
	}
	return list, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func scanVideo(row pgx.Row) (*repository.Video, error) {
	var v repository.Video
	if err := row.Scan(&v.ID, &v.URL, &v.Title, &v.Description, &v.Transcript, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVideos(rows pgx.Rows) ([]repository.Video, error) {
	defer rows.Close()
	var list []repository.Video
	for rows.Next() {
		v, err := scanVideo(rows)
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

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, repository.ErrStoreUnavailable, err)
}
