package models

import (
	"slices"
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// MaxContentLength is LinkedIn's limit for a post body.
const MaxContentLength = 3000

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// Post is a locally composed post. Image holds a data URI.
type Post struct {
	ID            string     `db:"id" json:"id"`
	Content       string     `db:"content" json:"content"`
	Image         *string    `db:"image" json:"image"`
	FirstComment  *string    `db:"first_comment" json:"firstComment"`
	ScheduledTime *time.Time `db:"scheduled_time" json:"scheduledTime"`
	Status        PostStatus `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	PublishedAt   *time.Time `db:"published_at" json:"publishedAt,omitempty"`
}

// PostPatch carries a partial update. Nil fields are left untouched and a
// pointer to an empty string clears Image or FirstComment. ID and CreatedAt
// are accepted so callers can send whole records back, but never applied.
type PostPatch struct {
	ID            *string    `json:"id,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	Content       *string    `json:"content,omitempty"`
	Image         *string    `json:"image,omitempty"`
	FirstComment  *string    `json:"firstComment,omitempty"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

type PostStats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Drafts    int `json:"drafts"`
	Published int `json:"published"`
}

// ScheduledOn reports whether the post is scheduled on the calendar day of
// day, evaluated in day's location.
func (p *Post) ScheduledOn(day time.Time) bool {
	if p.Status != PostStatusScheduled || p.ScheduledTime == nil {
		return false
	}
	y1, m1, d1 := p.ScheduledTime.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SortForDisplay returns a copy ordered drafts first, then posts with a
// scheduled time ascending, then the rest. Ties keep their stored order.
func SortForDisplay(posts []*Post) []*Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b *Post) int {
		ra, rb := displayRank(a), displayRank(b)
		if ra != rb {
			return ra - rb
		}
		if ra == 1 {
			return a.ScheduledTime.Compare(*b.ScheduledTime)
		}
		return 0
	})
	return sorted
}

func displayRank(p *Post) int {
	switch {
	case p.Status == PostStatusDraft:
		return 0
	case p.ScheduledTime != nil:
		return 1
	default:
		return 2
	}
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
