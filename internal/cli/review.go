package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/buker/critic/internal/config"
	"github.com/buker/critic/internal/render"
	"github.com/buker/critic/internal/review"
)

// ErrReviewFailed wraps the user-facing message of a failed invocation.
var ErrReviewFailed = errors.New("review failed")

func init() {
	reviewCmd.Flags().Bool("staged", false, "Review the staged git diff")
	reviewCmd.Flags().StringP("output", "o", "", "Write the markdown review to a file")
	reviewCmd.Flags().Bool("raw", false, "Print raw markdown even on a terminal")
}

var reviewCmd = &cobra.Command{
	Use:   "review [file|-]",
	Short: "Review code once and print the result",
	Long: `Send code to the configured model once and print the markdown review.

The source is a file, stdin ("-"), or the staged git changes (--staged).
On a terminal the review is rendered with glamour unless --raw is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	source, err := loadSource(cmd, args)
	if err != nil {
		return err
	}
	if review.IsBlank(source) {
		return review.ErrBlankInput
	}

	reviewer, err := newReviewer(cfg)
	if err != nil {
		return err
	}

	session := review.NewSession()
	defer session.Close()
	session.SetInput(source)
	session.Run(cmd.Context(), reviewer)

	if session.Status() == review.StatusFailed {
		return fmt.Errorf("%w: %s", ErrReviewFailed, session.Err())
	}

	output, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")
	return writeReview(cmd.OutOrStdout(), session.Result(), output, raw, cfg)
}

// writeReview writes md to path, or to w, rendering it when w is a terminal.
func writeReview(w io.Writer, md, path string, raw bool, cfg *config.Config) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return fmt.Errorf("failed to write review: %w", err)
		}
		logger.Info().Str("path", path).Msg("review written")
		return nil
	}

	width, tty := terminalWidth(w)
	if raw || !tty {
		_, err := fmt.Fprintln(w, md)
		return err
	}

	if cfg.Render.Width > 0 {
		width = cfg.Render.Width
	}
	_, err := fmt.Fprintln(w, render.New(cfg.Render.Style).Markdown(md, width))
	return err
}

// terminalWidth reports the width of w if it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}
