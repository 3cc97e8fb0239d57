package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(posts []*Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestSortForDisplay(t *testing.T) {
	posts := []*Post{
		{ID: "late", Status: PostStatusScheduled, ScheduledTime: at("2026-03-02T10:00:00Z")},
		{ID: "draft-1", Status: PostStatusDraft},
		{ID: "pub-no-time", Status: PostStatusPublished},
		{ID: "early", Status: PostStatusScheduled, ScheduledTime: at("2026-03-01T10:00:00Z")},
		{ID: "draft-2", Status: PostStatusDraft},
	}

	sorted := SortForDisplay(posts)

	assert.Equal(t, []string{"draft-1", "draft-2", "early", "late", "pub-no-time"}, ids(sorted))
	assert.Equal(t, "late", posts[0].ID, "input slice must not be reordered")
}

func TestSortForDisplayWithoutDraftsKeepsScheduleOrder(t *testing.T) {
	posts := []*Post{
		{ID: "a", Status: PostStatusScheduled, ScheduledTime: at("2026-03-01T09:00:00Z")},
		{ID: "b", Status: PostStatusScheduled, ScheduledTime: at("2026-03-01T10:00:00Z")},
	}

	assert.Equal(t, []string{"a", "b"}, ids(SortForDisplay(posts)))
}

func TestScheduledOn(t *testing.T) {
	p := &Post{Status: PostStatusScheduled, ScheduledTime: at("2026-03-01T23:30:00Z")}

	assert.True(t, p.ScheduledOn(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.ScheduledOn(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	assert.True(t, p.ScheduledOn(time.Date(2026, 3, 2, 0, 0, 0, 0, plus2)))

	draft := &Post{Status: PostStatusDraft}
	assert.False(t, draft.ScheduledOn(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPostStatusValid(t *testing.T) {
	assert.True(t, PostStatusDraft.Valid())
	assert.True(t, PostStatusPublished.Valid())
	assert.False(t, PostStatus("posted").Valid())
}
