package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/llm"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/repository"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type fakeAI struct {
	last transfer.GenerateRequest
}

func (f *fakeAI) Generate(_ context.Context, req transfer.GenerateRequest) (string, error) {
	f.last = req
	return "  AI says hi  \n", nil
}

func (f *fakeAI) Models(provider string) (llm.ProviderKind, []string, error) {
	return llm.OpenAI, llm.Models(llm.OpenAI), nil
}

type harness struct {
	a     *app
	posts service.PostService
	ai    *fakeAI
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	posts := service.NewPostService(repository.NewMediumPostRepository(repository.NewMemoryMedium(), log), log)
	h := &harness{posts: posts, ai: &fakeAI{}}
	h.a = &app{
		cfg: &config.Config{Storage: "file", DataDir: t.TempDir()},
		log: log,
		now: func() time.Time { return testNow },
		loc: time.UTC,
		openStore: func(context.Context, *config.Config, *logrus.Logger) (service.PostService, func() error, error) {
			return posts, func() error { return nil }, nil
		},
		newAI: func(config.AI, *logrus.Logger) service.AIService { return h.ai },
	}
	return h
}

// run executes the root command. Ids go after "--" since nanoids may start
// with a dash.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd(h.a)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	require.NoError(t, err, out)
	return out
}

// createdID reads the id from "Created draft <id>".
func createdID(out string) string {
	fields := strings.Fields(out)
	return fields[len(fields)-1]
}

// scheduledID reads the id from "Scheduled <id> for <time>".
func scheduledID(out string) string {
	return strings.Fields(out)[1]
}

func TestDraftLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id := createdID(h.mustRun(t, "draft", "--content", "First draft", "--first-comment", "link in here"))

	out := h.mustRun(t, "edit", "--content", "Edited draft", "--", id)
	assert.Contains(t, out, "Updated "+id+" (draft)")

	post, found, err := h.posts.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Edited draft", post.Content)
	require.NotNil(t, post.FirstComment)
	assert.Equal(t, "link in here", *post.FirstComment)

	h.mustRun(t, "edit", "--first-comment=", "--", id)
	post, _, _ = h.posts.Get(ctx, id)
	assert.Nil(t, post.FirstComment)

	out = h.mustRun(t, "schedule-draft", "--at", "2025-06-02T09:30:00Z", "--", id)
	assert.Contains(t, out, "Scheduled "+id)
	post, _, _ = h.posts.Get(ctx, id)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), *post.ScheduledTime)

	out = h.mustRun(t, "publish", "--", id)
	assert.Contains(t, out, "Published "+id)

	_, err = h.run(t, "publish", "--", id)
	assert.EqualError(t, err, "post "+id+" cannot be changed in its current status")

	_, err = h.run(t, "edit", "--content", "too late", "--", id)
	assert.Error(t, err)

	h.mustRun(t, "rm", "--", id)
	h.mustRun(t, "rm", "--", id)
	_, found, _ = h.posts.Get(ctx, id)
	assert.False(t, found)
}

func TestUnknownIDs(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "publish", "nope")
	assert.EqualError(t, err, "post nope not found")

	_, err = h.run(t, "edit", "nope", "--content", "x")
	assert.EqualError(t, err, "post nope not found")

	_, err = h.run(t, "schedule-draft", "nope", "--at", "2025-07-01T00:00:00Z")
	assert.EqualError(t, err, "post nope not found")
}

func TestScheduleGuards(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "schedule", "--content", "  ", "--at", "2025-07-01T00:00:00Z")
	assert.EqualError(t, err, "content is required")

	_, err = h.run(t, "schedule", "--content", "hi", "--at", "2025-05-01T00:00:00Z")
	assert.EqualError(t, err, "scheduled time must be in the future")

	_, err = h.run(t, "schedule", "--content", "hi", "--at", "tomorrow")
	assert.ErrorContains(t, err, "RFC3339")

	_, err = h.run(t, "schedule", "--content", "hi")
	assert.EqualError(t, err, "--at is required")

	_, err = h.run(t, "draft", "--content", strings.Repeat("x", 3001))
	assert.ErrorContains(t, err, "LinkedIn allows 3000")

	stats, err := h.posts.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestListAgendaAndStats(t *testing.T) {
	h := newHarness(t)

	later := scheduledID(h.mustRun(t, "schedule", "--content", "Later post", "--at", "2025-06-03T10:00:00Z"))
	sooner := scheduledID(h.mustRun(t, "schedule", "--content", "Sooner post", "--at", "2025-06-02T10:00:00Z"))
	draft := createdID(h.mustRun(t, "draft", "--content", "A draft"))

	out := h.mustRun(t, "ls")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], draft))
	assert.True(t, strings.HasPrefix(lines[2], sooner))
	assert.Contains(t, lines[3], "Later post")

	out = h.mustRun(t, "ls", "--status", "draft", "--json")
	var listed []models.Post
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, draft, listed[0].ID)

	_, err := h.run(t, "ls", "--status", "archived")
	assert.Error(t, err)

	out = h.mustRun(t, "agenda", "--date", "2025-06-03")
	assert.Contains(t, out, later)
	assert.NotContains(t, out, sooner)

	out = h.mustRun(t, "agenda", "--date", "2025-06-10")
	assert.Contains(t, out, "Nothing scheduled on 2025-06-10")

	out = h.mustRun(t, "stats")
	assert.Contains(t, out, "Total:      3")
	assert.Contains(t, out, "Drafts:     1")
	assert.Contains(t, out, "Scheduled:  2")

	_, err = h.run(t, "clear")
	assert.Error(t, err)
	h.mustRun(t, "clear", "--force")
	assert.Contains(t, h.mustRun(t, "ls"), "No posts")
}

func TestDraftWithImage(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	png := filepath.Join(dir, "pic.png")
	pngBytes := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	require.NoError(t, os.WriteFile(png, pngBytes, 0o600))

	id := createdID(h.mustRun(t, "draft", "--content", "With image", "--image", png))
	post, _, err := h.posts.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, post.Image)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes), *post.Image)

	h.mustRun(t, "edit", "--image=", "--", id)
	post, _, _ = h.posts.Get(context.Background(), id)
	assert.Nil(t, post.Image)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("just text"), 0o600))
	_, err = h.run(t, "draft", "--content", "x", "--image", txt)
	assert.ErrorContains(t, err, "is not an image")
}

func TestScoreCommand(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "score", "--content", "Hello world")
	assert.True(t, strings.HasPrefix(out, "Score: 32 (F)"))

	file := filepath.Join(t.TempDir(), "post.txt")
	require.NoError(t, os.WriteFile(file, []byte("Hello world"), 0o600))
	out = h.mustRun(t, "score", "--file", file, "--json")
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.EqualValues(t, 32, result["score"])

	out = h.mustRun(t, "score")
	assert.True(t, strings.HasPrefix(out, "Score: 0 (-)"))
}

func TestFmtCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "𝗛𝗶 𝟮\n", h.mustRun(t, "fmt", "bold", "Hi", "2"))
	assert.Equal(t, "1. one\n2. two\n", h.mustRun(t, "fmt", "numbers", `one\ntwo`))

	_, err := h.run(t, "fmt", "underline", "x")
	assert.Error(t, err)
}

func TestAICommand(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "ai", "rewrite", "my", "post", "--tone", "casual", "--provider", "claude", "--max-tokens", "300")
	assert.Equal(t, "AI says hi\n", out)
	assert.Equal(t, "claude", h.ai.last.Provider)
	assert.Equal(t, 300, h.ai.last.MaxTokens)
	assert.Contains(t, h.ai.last.Prompt, "casual tone")
	assert.Contains(t, h.ai.last.Prompt, `"my post"`)

	h.mustRun(t, "ai", "framework", "career", "tips", "--framework", "listicle")
	assert.NotEmpty(t, h.ai.last.SystemPrompt)

	_, err := h.run(t, "ai", "framework", "x", "--framework", "nope")
	assert.EqualError(t, err, `unknown framework "nope"`)

	_, err = h.run(t, "ai", "summarise", "x")
	assert.EqualError(t, err, `unknown action "summarise"`)

	_, err = h.run(t, "ai", "generate")
	assert.EqualError(t, err, "text is required")

	assert.Contains(t, h.mustRun(t, "ai", "frameworks"), "personal-story")
	assert.Contains(t, h.mustRun(t, "ai", "models"), "gpt-4o-mini")
}

func TestSecretCommand(t *testing.T) {
	h := newHarness(t)
	out := strings.TrimSpace(h.mustRun(t, "secret"))
	raw, err := base64.RawURLEncoding.DecodeString(out)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestMissingEnvFileIsLoggedWhenVerbose(t *testing.T) {
	h := newHarness(t)
	var logs bytes.Buffer
	h.a.log.SetOutput(&logs)
	h.a.envErr = godotenv.Load(filepath.Join(t.TempDir(), ".env"))
	require.Error(t, h.a.envErr)

	h.mustRun(t, "stats")
	assert.Empty(t, logs.String())

	h.mustRun(t, "stats", "-v")
	assert.Contains(t, logs.String(), "No .env file loaded")
}

func TestOpenStoreFilePersists(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{Storage: "file", DataDir: t.TempDir()}
	ctx := context.Background()

	posts, closeStore, err := openStore(ctx, cfg, log)
	require.NoError(t, err)
	created, err := posts.CreateDraft(ctx, "persisted", nil, nil)
	require.NoError(t, err)
	require.NoError(t, closeStore())

	reopened, _, err := openStore(ctx, cfg, log)
	require.NoError(t, err)
	got, found, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "persisted", got.Content)
	assert.FileExists(t, filepath.Join(cfg.DataDir, repository.PostsKey+".json"))
}

func TestOpenStoreRejectsBadConfig(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	ctx := context.Background()

	_, _, err := openStore(ctx, &config.Config{Storage: "redis"}, log)
	assert.ErrorContains(t, err, `unknown storage "redis"`)

	_, _, err = openStore(ctx, &config.Config{Storage: "postgres"}, log)
	assert.EqualError(t, err, "POSTGRES_URI is required for postgres storage")

	_, _, err = openStore(ctx, &config.Config{Storage: "s3"}, log)
	assert.Error(t, err)
}
