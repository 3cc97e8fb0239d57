package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/scoring"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type postFlags struct {
	content      string
	image        string
	firstComment string
	at           string
}

func (f *postFlags) register(cmd *cobra.Command, withTime bool) {
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "post text")
	cmd.Flags().StringVar(&f.image, "image", "", "path to an image to attach")
	cmd.Flags().StringVar(&f.firstComment, "first-comment", "", "comment to add after publishing")
	if withTime {
		cmd.Flags().StringVar(&f.at, "at", "", "publish time (RFC3339)")
	}
}

func checkContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if n := utf8.RuneCountInString(content); n > models.MaxContentLength {
		return fmt.Errorf("content is %d characters, LinkedIn allows %d", n, models.MaxContentLength)
	}
	return nil
}

func (a *app) parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("--at is required")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: use RFC3339, e.g. 2025-06-01T09:00:00Z", value)
	}
	return t, nil
}

func (a *app) futureTime(value string) (time.Time, error) {
	t, err := a.parseTime(value)
	if err != nil {
		return t, err
	}
	if !t.After(a.now()) {
		return time.Time{}, errors.New("scheduled time must be in the future")
	}
	return t, nil
}

// imageDataURI reads an image file into a data URI. Non-image files are
// rejected.
func imageDataURI(path string) (*string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kind, err := filetype.Match(raw)
	if err != nil || !filetype.IsImage(raw) {
		return nil, fmt.Errorf("%s is not an image", path)
	}
	uri := "data:" + kind.MIME.Value + ";base64," + base64.StdEncoding.EncodeToString(raw)
	return &uri, nil
}

func notFound(id string) error {
	return fmt.Errorf("post %s not found", id)
}

func transitionErr(id string, err error) error {
	if errors.Is(err, service.ErrInvalidTransition) {
		return fmt.Errorf("post %s cannot be changed in its current status", id)
	}
	return err
}

func newDraftCmd(a *app) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkContent(f.content); err != nil {
				return err
			}
			image, err := imageDataURI(f.image)
			if err != nil {
				return err
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				post, err := posts.CreateDraft(ctx, f.content, image, models.StringPtr(f.firstComment))
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Created draft %s\n", post.ID)
				return nil
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkContent(f.content); err != nil {
				return err
			}
			when, err := a.futureTime(f.at)
			if err != nil {
				return err
			}
			image, err := imageDataURI(f.image)
			if err != nil {
				return err
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				post, err := posts.CreateScheduled(ctx, f.content, image, when, models.StringPtr(f.firstComment))
				if err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Scheduled %s for %s\n", post.ID, post.ScheduledTime.In(a.loc).Format(time.RFC1123))
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a draft or scheduled post",
		Long: `Change a draft or scheduled post. Only the given flags are applied.
An empty --image or --first-comment removes the field. --at only applies to scheduled posts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.PostPatch
			flags := cmd.Flags()
			if flags.Changed("content") {
				if err := checkContent(f.content); err != nil {
					return err
				}
				patch.Content = &f.content
			}
			if flags.Changed("first-comment") {
				patch.FirstComment = &f.firstComment
			}
			if flags.Changed("image") {
				empty := ""
				patch.Image = &empty
				image, err := imageDataURI(f.image)
				if err != nil {
					return err
				}
				if image != nil {
					patch.Image = image
				}
			}
			if flags.Changed("at") {
				when, err := a.futureTime(f.at)
				if err != nil {
					return err
				}
				patch.ScheduledTime = &when
			}

			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				post, found, err := posts.Update(ctx, args[0], patch)
				if err != nil {
					return transitionErr(args[0], err)
				}
				if !found {
					return notFound(args[0])
				}
				fmt.Fprintf(out(cmd), "Updated %s (%s)\n", post.ID, post.Status)
				return nil
			})
		},
	}
	f.register(cmd, true)
	return cmd
}

func newScheduleDraftCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "schedule-draft ID",
		Short: "Schedule an existing draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := a.futureTime(at)
			if err != nil {
				return err
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				post, found, err := posts.ScheduleDraft(ctx, args[0], when)
				if err != nil {
					return transitionErr(args[0], err)
				}
				if !found {
					return notFound(args[0])
				}
				fmt.Fprintf(out(cmd), "Scheduled %s for %s\n", post.ID, post.ScheduledTime.In(a.loc).Format(time.RFC1123))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "publish time (RFC3339)")
	return cmd
}

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish ID",
		Short: "Mark a post as published",
		Long:  "Mark a post as published. Run this after the post went live on LinkedIn; it does not contact LinkedIn.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				post, found, err := posts.Publish(ctx, args[0])
				if err != nil {
					return transitionErr(args[0], err)
				}
				if !found {
					return notFound(args[0])
				}
				fmt.Fprintf(out(cmd), "Published %s at %s\n", post.ID, post.PublishedAt.In(a.loc).Format(time.RFC1123))
				return nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				if err := posts.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out(cmd), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		status string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List posts, drafts first then by scheduled time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" && !models.PostStatus(status).Valid() {
				return fmt.Errorf("unknown status %q (want draft, scheduled or published)", status)
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				var (
					list []*models.Post
					err  error
				)
				if status == "" {
					list, err = posts.ListSorted(ctx)
				} else {
					list, err = posts.ListByStatus(ctx, models.PostStatus(status))
					list = models.SortForDisplay(list)
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out(cmd), list)
				}
				a.writePosts(out(cmd), list)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only show posts with this status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newAgendaCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show posts scheduled on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := a.now().In(a.loc)
			if date != "" {
				parsed, err := time.ParseInLocation(dateLayout, date, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", date)
				}
				day = parsed
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				list, err := posts.ListForDate(ctx, day)
				if err != nil {
					return err
				}
				list = models.SortForDisplay(list)
				if len(list) == 0 {
					fmt.Fprintf(out(cmd), "Nothing scheduled on %s\n", day.Format(dateLayout))
					return nil
				}
				a.writePosts(out(cmd), list)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count posts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				stats, err := posts.Stats(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Total:\t%d\n", stats.Total)
				fmt.Fprintf(w, "Drafts:\t%d\n", stats.Drafts)
				fmt.Fprintf(w, "Scheduled:\t%d\n", stats.Scheduled)
				fmt.Fprintf(w, "Published:\t%d\n", stats.Published)
				return w.Flush()
			})
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to delete all posts without --force")
			}
			return a.withPosts(cmd, func(ctx context.Context, posts service.PostService) error {
				if err := posts.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), "All posts deleted")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting all posts")
	return cmd
}

func (a *app) writePosts(w io.Writer, posts []*models.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tWHEN\tSCORE\tCONTENT")
	for _, p := range posts {
		when := "-"
		switch {
		case p.PublishedAt != nil:
			when = p.PublishedAt.In(a.loc).Format("2006-01-02 15:04")
		case p.ScheduledTime != nil:
			when = p.ScheduledTime.In(a.loc).Format("2006-01-02 15:04")
		}
		firstComment := ""
		if p.FirstComment != nil {
			firstComment = *p.FirstComment
		}
		result := scoring.Score(p.Content, firstComment)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d %s\t%s\n", p.ID, p.Status, when, result.Score, result.Grade, preview(p.Content, 40))
	}
	tw.Flush()
}

func preview(content string, max int) string {
	line := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(line) <= max {
		return line
	}
	runes := []rune(line)
	return string(runes[:max-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
