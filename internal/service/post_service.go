package service

import (
	"context"
	"errors"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
)

// ErrInvalidTransition is returned for lifecycle moves the post's current
// status does not allow. Published posts are terminal.
var ErrInvalidTransition = errors.New("invalid status transition")

// PostService is the local post store. Lookups by id report a missing post
// with found=false and a nil error. Content validation is left to callers.
type PostService interface {
	CreateDraft(ctx context.Context, content string, image, firstComment *string) (*models.Post, error)
	CreateScheduled(ctx context.Context, content string, image *string, scheduledTime time.Time, firstComment *string) (*models.Post, error)
	Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, bool, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) (*models.Post, bool, error)
	ScheduleDraft(ctx context.Context, id string, scheduledTime time.Time) (*models.Post, bool, error)
	Get(ctx context.Context, id string) (*models.Post, bool, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByStatus(ctx context.Context, status models.PostStatus) ([]*models.Post, error)
	ListSorted(ctx context.Context) ([]*models.Post, error)
	ListForDate(ctx context.Context, day time.Time) ([]*models.Post, error)
	Stats(ctx context.Context) (models.PostStats, error)
	Clear(ctx context.Context) error
}

type postService struct {
	pr    repository.PostRepository
	log   *logrus.Logger
	now   func() time.Time
	newID func() (string, error)
}

func NewPostService(pr repository.PostRepository, log *logrus.Logger) PostService {
	return &postService{
		pr:  pr,
		log: log,
		now: time.Now,
		newID: func() (string, error) {
			return gonanoid.New()
		},
	}
}

func (s *postService) create(ctx context.Context, post *models.Post) (*models.Post, error) {
	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	post.ID = id
	post.CreatedAt = s.now().UTC()

	if err := s.pr.Save(ctx, post); err != nil {
		s.log.WithError(err).WithField("post_id", id).Error("Failed to save new post")
		return nil, err
	}
	return post, nil
}

func (s *postService) CreateDraft(ctx context.Context, content string, image, firstComment *string) (*models.Post, error) {
	return s.create(ctx, &models.Post{
		Content:      content,
		Image:        nonEmpty(image),
		FirstComment: nonEmpty(firstComment),
		Status:       models.PostStatusDraft,
	})
}

// CreateScheduled accepts past times so that already-due posts can be
// re-created from edits.
func (s *postService) CreateScheduled(ctx context.Context, content string, image *string, scheduledTime time.Time, firstComment *string) (*models.Post, error) {
	when := scheduledTime.UTC()
	return s.create(ctx, &models.Post{
		Content:       content,
		Image:         nonEmpty(image),
		FirstComment:  nonEmpty(firstComment),
		ScheduledTime: &when,
		Status:        models.PostStatusScheduled,
	})
}

// mutate loads id, applies fn and saves the result. The stored record is
// untouched when fn or the save fails.
func (s *postService) mutate(ctx context.Context, id string, fn func(p *models.Post) error) (*models.Post, bool, error) {
	post, found, err := s.pr.GetByID(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("post_id", id).Error("Failed to load post")
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	if err := fn(post); err != nil {
		return nil, true, err
	}
	if err := s.pr.Save(ctx, post); err != nil {
		s.log.WithError(err).WithField("post_id", id).Error("Failed to save post")
		return nil, true, err
	}
	return post, true, nil
}

// Update merges patch into the post. ID and CreatedAt in the patch are
// ignored. A scheduled time is only applied to scheduled posts.
func (s *postService) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, bool, error) {
	return s.mutate(ctx, id, func(p *models.Post) error {
		if p.Status == models.PostStatusPublished {
			return ErrInvalidTransition
		}
		if patch.Content != nil {
			p.Content = *patch.Content
		}
		if patch.Image != nil {
			p.Image = nonEmpty(patch.Image)
		}
		if patch.FirstComment != nil {
			p.FirstComment = nonEmpty(patch.FirstComment)
		}
		if patch.ScheduledTime != nil && p.Status == models.PostStatusScheduled {
			when := patch.ScheduledTime.UTC()
			p.ScheduledTime = &when
		}
		return nil
	})
}

// Delete removes the post whatever its status. Unknown ids are not an error.
func (s *postService) Delete(ctx context.Context, id string) error {
	if err := s.pr.Remove(ctx, id); err != nil {
		s.log.WithError(err).WithField("post_id", id).Error("Failed to delete post")
		return err
	}
	return nil
}

// Publish records a successful remote publish. It never calls LinkedIn.
func (s *postService) Publish(ctx context.Context, id string) (*models.Post, bool, error) {
	return s.mutate(ctx, id, func(p *models.Post) error {
		if p.Status == models.PostStatusPublished {
			return ErrInvalidTransition
		}
		now := s.now().UTC()
		p.Status = models.PostStatusPublished
		p.PublishedAt = &now
		return nil
	})
}

func (s *postService) ScheduleDraft(ctx context.Context, id string, scheduledTime time.Time) (*models.Post, bool, error) {
	return s.mutate(ctx, id, func(p *models.Post) error {
		if p.Status != models.PostStatusDraft {
			return ErrInvalidTransition
		}
		when := scheduledTime.UTC()
		p.Status = models.PostStatusScheduled
		p.ScheduledTime = &when
		return nil
	})
}

func (s *postService) Get(ctx context.Context, id string) (*models.Post, bool, error) {
	return s.pr.GetByID(ctx, id)
}

func (s *postService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.pr.List(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to list posts")
		return []*models.Post{}, err
	}
	return posts, nil
}

func (s *postService) filter(ctx context.Context, keep func(p *models.Post) bool) ([]*models.Post, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return posts, err
	}
	out := []*models.Post{}
	for _, p := range posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *postService) ListByStatus(ctx context.Context, status models.PostStatus) ([]*models.Post, error) {
	return s.filter(ctx, func(p *models.Post) bool { return p.Status == status })
}

func (s *postService) ListSorted(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return posts, err
	}
	return models.SortForDisplay(posts), nil
}

// ListForDate returns scheduled posts falling on day's calendar date in
// day's location.
func (s *postService) ListForDate(ctx context.Context, day time.Time) ([]*models.Post, error) {
	return s.filter(ctx, func(p *models.Post) bool { return p.ScheduledOn(day) })
}

func (s *postService) Stats(ctx context.Context) (models.PostStats, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return models.PostStats{}, err
	}
	stats := models.PostStats{Total: len(posts)}
	for _, p := range posts {
		switch p.Status {
		case models.PostStatusDraft:
			stats.Drafts++
		case models.PostStatusScheduled:
			stats.Scheduled++
		case models.PostStatusPublished:
			stats.Published++
		}
	}
	return stats, nil
}

func (s *postService) Clear(ctx context.Context) error {
	if err := s.pr.Clear(ctx); err != nil {
		s.log.WithError(err).Error("Failed to clear posts")
		return err
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
