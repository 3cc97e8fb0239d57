package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/sirupsen/logrus"
)

// PostsKey is the medium key holding the JSON array of posts.
const PostsKey = "linkedinPosts"

type mediumPostRepository struct {
	mu     sync.Mutex
	medium Medium
	log    *logrus.Logger
}

// NewMediumPostRepository keeps all posts as one JSON array under PostsKey.
// A missing or unparseable value reads as an empty list.
func NewMediumPostRepository(medium Medium, log *logrus.Logger) PostRepository {
	return &mediumPostRepository{medium: medium, log: log}
}

func (r *mediumPostRepository) load(ctx context.Context) ([]*models.Post, error) {
	raw, ok, err := r.medium.Get(ctx, PostsKey)
	if err != nil {
		return nil, storageErr("read "+PostsKey, err)
	}
	if !ok || raw == "" {
		return []*models.Post{}, nil
	}

	var stored []*models.Post
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.WithError(err).WithField("key", PostsKey).Warn("Stored posts are unreadable, treating as empty")
		return []*models.Post{}, nil
	}

	posts := make([]*models.Post, 0, len(stored))
	for _, p := range stored {
		if p != nil {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (r *mediumPostRepository) store(ctx context.Context, posts []*models.Post) error {
	b, err := json.Marshal(posts)
	if err != nil {
		return storageErr("encode posts", err)
	}
	if err := r.medium.Set(ctx, PostsKey, string(b)); err != nil {
		return storageErr("write "+PostsKey, err)
	}
	return nil
}

func (r *mediumPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *mediumPostRepository) GetByID(ctx context.Context, id string) (*models.Post, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, true, nil
		}
	}
	return nil, false, nil
}

func (r *mediumPostRepository) Save(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, p := range posts {
		if p.ID == post.ID {
			posts[i] = post
			replaced = true
			break
		}
	}
	if !replaced {
		posts = append(posts, post)
	}
	return r.store(ctx, posts)
}

func (r *mediumPostRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return r.store(ctx, kept)
}

func (r *mediumPostRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.medium.Remove(ctx, PostsKey); err != nil {
		return storageErr("remove "+PostsKey, err)
	}
	return nil
}
