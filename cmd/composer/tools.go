package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/maheshrc27/linkedin-scheduler/internal/format"
	"github.com/maheshrc27/linkedin-scheduler/internal/prompts"
	"github.com/maheshrc27/linkedin-scheduler/internal/scoring"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/maheshrc27/linkedin-scheduler/pkg/utils"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var (
		content      string
		file         string
		firstComment string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score post content for engagement",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := content
			switch {
			case file == "-":
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(raw)
			case file != "":
				raw, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				text = string(raw)
			}

			result := scoring.Score(text, firstComment)
			if asJSON {
				return writeJSON(out(cmd), result)
			}
			fmt.Fprintf(out(cmd), "Score: %d (%s)\n", result.Score, result.Grade)
			for _, tip := range result.Tips {
				fmt.Fprintf(out(cmd), "  - %s\n", tip)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "post text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read post text from a file (- for stdin)")
	cmd.Flags().StringVar(&firstComment, "first-comment", "", "planned first comment")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

var formatters = map[string]func(string) string{
	"bold":    format.Bold,
	"italic":  format.Italic,
	"bullets": format.BulletList,
	"numbers": format.NumberedList,
	"spacing": format.SpaceParagraphs,
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "fmt bold|italic|bullets|numbers|spacing TEXT...",
		Short:     "Format text with LinkedIn-compatible Unicode styles",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"bold", "italic", "bullets", "numbers", "spacing"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, ok := formatters[args[0]]
			if !ok {
				return fmt.Errorf("unknown style %q", args[0])
			}
			// literal \n in arguments separates lines
			text := strings.ReplaceAll(strings.Join(args[1:], " "), `\n`, "\n")
			fmt.Fprintln(out(cmd), fn(text))
			return nil
		},
	}
}

type aiFlags struct {
	provider  string
	model     string
	apiKey    string
	tone      string
	framework string
	maxTokens int
}

func newAICmd(a *app) *cobra.Command {
	var f aiFlags
	cmd := &cobra.Command{
		Use:   "ai generate|hashtags|rewrite|improve|ideas|first-comment|framework TEXT...",
		Short: "Draft or improve posts with an AI provider",
		Long: `Draft or improve posts with an AI provider.

Provider keys come from GEMINI_API_KEY, ANTHROPIC_API_KEY and OPENAI_API_KEY
unless --api-key is given. "framework" writes a post about TEXT following
the structure named by --framework (see "composer ai frameworks").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]
			if action == "frameworks" {
				return writeFrameworks(out(cmd))
			}
			if action == "models" {
				_, models, err := a.newAI(a.cfg.AI, a.log).Models(f.provider)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), strings.Join(models, "\n"))
				return nil
			}

			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return errors.New("text is required")
			}
			prompt, err := buildPrompt(action, text, f)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			generated, err := a.newAI(a.cfg.AI, a.log).Generate(ctx, transfer.GenerateRequest{
				Prompt:       prompt.User,
				SystemPrompt: prompt.System,
				APIKey:       f.apiKey,
				Model:        f.model,
				MaxTokens:    f.maxTokens,
				Provider:     f.provider,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), strings.TrimSpace(generated))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "", "gemini, claude or openai (default from AI_DEFAULT_PROVIDER)")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model name")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "provider API key")
	cmd.Flags().StringVar(&f.tone, "tone", "professional", "tone for rewrite")
	cmd.Flags().StringVar(&f.framework, "framework", "", "framework id for the framework action")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "maximum output tokens")
	return cmd
}

func buildPrompt(action, text string, f aiFlags) (prompts.Prompt, error) {
	switch action {
	case "generate":
		return prompts.GeneratePost(text), nil
	case "hashtags":
		return prompts.Hashtags(text), nil
	case "rewrite":
		return prompts.Rewrite(text, f.tone), nil
	case "improve":
		return prompts.Improve(text), nil
	case "ideas":
		return prompts.Ideas(text), nil
	case "first-comment":
		return prompts.FirstComment(text), nil
	case "framework":
		fw, ok := prompts.LookupFramework(f.framework)
		if !ok {
			return prompts.Prompt{}, fmt.Errorf("unknown framework %q", f.framework)
		}
		return prompts.FromFramework(text, fw.SystemPrompt), nil
	}
	return prompts.Prompt{}, fmt.Errorf("unknown action %q", action)
}

func writeFrameworks(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, fw := range prompts.Frameworks() {
		fmt.Fprintf(tw, "%s\t%s\n", fw.ID, fw.Name)
	}
	return tw.Flush()
}

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Print a random SESSION_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := utils.GenerateRandomKey(32)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), secret)
			return nil
		},
	}
}
