package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var Version = "dev"

// app carries what every command needs. Tests replace openStore and newAI.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	now       func() time.Time
	loc       *time.Location
	openStore storeOpener
	newAI     func(cfg config.AI, log *logrus.Logger) service.AIService
	// envErr is the result of loading .env, reported once logging is set up.
	envErr error
}

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()
	log := logging.NewLogger(cfg.LogLevel)
	log.SetOutput(os.Stderr)

	a := &app{
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		loc:       time.Local,
		openStore: openStore,
		newAI:     service.NewAIService,
		envErr:    envErr,
	}

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "composer",
		Short:         "Compose, score and schedule LinkedIn posts",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfg.Storage, "storage", a.cfg.Storage, "post storage: file|s3|postgres")
	rootCmd.PersistentFlags().StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "directory for file storage")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			a.log.SetLevel(logrus.DebugLevel)
		}
		if a.envErr != nil {
			a.log.WithError(a.envErr).Debug("No .env file loaded")
		}
	}

	rootCmd.AddCommand(newDraftCmd(a))
	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newScheduleDraftCmd(a))
	rootCmd.AddCommand(newPublishCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newAgendaCmd(a))
	rootCmd.AddCommand(newStatsCmd(a))
	rootCmd.AddCommand(newClearCmd(a))
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newAICmd(a))
	rootCmd.AddCommand(newSecretCmd())

	return rootCmd
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
