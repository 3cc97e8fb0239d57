package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
)

// ErrStorage wraps every failure of the underlying persistence medium.
var ErrStorage = errors.New("storage error")

// PostRepository is an ordered collection of posts keyed by id.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, bool, error)
	// Save inserts post at the end, or replaces the record with the same id in place.
	Save(ctx context.Context, post *models.Post) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository returns a Postgres-backed repository. Run EnsurePostSchema
// once before use.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const createPostsTable = `
	CREATE TABLE IF NOT EXISTS composer_posts (
		seq            BIGSERIAL,
		id             TEXT PRIMARY KEY,
		content        TEXT NOT NULL,
		image          TEXT,
		first_comment  TEXT,
		scheduled_time TIMESTAMPTZ,
		status         TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL,
		published_at   TIMESTAMPTZ
	)
`

const postColumns = `id, content, image, first_comment, scheduled_time, status, created_at, published_at`

func EnsurePostSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createPostsTable); err != nil {
		return storageErr("create composer_posts", err)
	}
	return nil
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO composer_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			image = EXCLUDED.image,
			first_comment = EXCLUDED.first_comment,
			scheduled_time = EXCLUDED.scheduled_time,
			status = EXCLUDED.status,
			published_at = EXCLUDED.published_at
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.Content,
		nullString(post.Image),
		nullString(post.FirstComment),
		nullTime(post.ScheduledTime),
		string(post.Status),
		post.CreatedAt,
		nullTime(post.PublishedAt),
	)
	if err != nil {
		return storageErr("save post", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, bool, error) {
	query := `SELECT ` + postColumns + ` FROM composer_posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, storageErr("get post", err)
	}
	return post, true, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM composer_posts ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, storageErr("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list posts", err)
	}
	return posts, nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM composer_posts WHERE id = $1`, id); err != nil {
		return storageErr("remove post", err)
	}
	return nil
}

func (r *postRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM composer_posts`); err != nil {
		return storageErr("clear posts", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post                       models.Post
		status                     string
		image, firstComment        sql.NullString
		scheduledTime, publishedAt sql.NullTime
	)
	err := row.Scan(&post.ID, &post.Content, &image, &firstComment, &scheduledTime, &status, &post.CreatedAt, &publishedAt)
	if err != nil {
		return nil, err
	}
	post.Status = models.PostStatus(status)
	if image.Valid {
		post.Image = &image.String
	}
	if firstComment.Valid {
		post.FirstComment = &firstComment.String
	}
	if scheduledTime.Valid {
		post.ScheduledTime = &scheduledTime.Time
	}
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	return &post, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
