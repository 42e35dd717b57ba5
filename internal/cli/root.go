// Package cli implements the command-line interface for critic using cobra.
// It provides the interactive review screen, a one-shot review command,
// prompt inspection, and configuration management.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/buker/critic/internal/ai"
	"github.com/buker/critic/internal/clip"
	"github.com/buker/critic/internal/config"
	"github.com/buker/critic/internal/logging"
	"github.com/buker/critic/internal/render"
	"github.com/buker/critic/internal/review"
	"github.com/buker/critic/internal/tui"
)

var (
	// Version is set at build time via -ldflags
	Version = "dev"

	logger   = zerolog.Nop()
	closeLog = func() {}

	// newGenerator is swapped out in tests.
	newGenerator = ai.New

	rootCmd = &cobra.Command{
		Use:   "critic [file|-]",
		Short: "AI code review in your terminal",
		Long: `critic sends your code to a language model with a senior-engineer review
prompt and renders the markdown critique.

When run without subcommands it opens the interactive review screen. The
input buffer can be pre-filled from a file, from stdin ("-"), or from the
staged git changes (--staged).`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { closeLog() },
		RunE:              runInteractive,
		SilenceUsage:      true,
	}
)

func init() {
	cobra.OnInitialize(config.Init)

	// Global flags
	rootCmd.PersistentFlags().String("provider", "", fmt.Sprintf("AI provider (%v)", ai.Providers()))
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model identifier sent to the provider")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path")

	rootCmd.Flags().Bool("staged", false, "Pre-fill the buffer with the staged git diff")

	// Bind flags to viper
	config.BindFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// ExecuteContext runs the root command and returns any error encountered.
// Canceling ctx cancels in-flight reviews.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	l, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger = l
	closeLog = closer
	return nil
}

// newReviewer builds a reviewer for the configured provider and model.
func newReviewer(cfg *config.Config) (*review.Reviewer, error) {
	gen, err := newGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}
	return review.NewReviewer(gen, cfg.AI.Model, logger), nil
}

func engineLabel(cfg *config.Config) string {
	return cfg.AI.Provider + "/" + cfg.AI.Model
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	reviewer, err := newReviewer(cfg)
	if err != nil {
		return err
	}

	initial, err := loadSource(cmd, args)
	if err != nil {
		return err
	}

	logger.Info().
		Str("provider", cfg.AI.Provider).
		Str("model", cfg.AI.Model).
		Int("initial_bytes", len(initial)).
		Msg("starting interactive session")

	program := tui.NewProgram(cmd.Context(), tui.Options{
		Reviewer:  reviewer,
		Clipboard: clip.New(logger),
		Renderer:  renderer{r: render.New(cfg.Render.Style), width: cfg.Render.Width},
		Engine:    engineLabel(cfg),
		Initial:   initial,
		Logger:    logger,
	})
	return program.Start()
}

// renderer pins the configured wrap width when one is set.
type renderer struct {
	r     *render.Renderer
	width int
}

func (r renderer) Markdown(md string, width int) string {
	if r.width > 0 {
		width = r.width
	}
	return r.r.Markdown(md, width)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "critic version %s\n", Version)
	},
}
