package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/buker/critic/internal/git"
)

// stdinArg selects stdin as the source.
const stdinArg = "-"

// loadSource returns the code to review: the staged diff when --staged is
// set, stdin for "-", the named file, or "" when no source was given.
func loadSource(cmd *cobra.Command, args []string) (string, error) {
	staged, _ := cmd.Flags().GetBool("staged")
	if staged {
		if len(args) > 0 {
			return "", fmt.Errorf("--staged cannot be combined with a file argument")
		}
		return stagedSource()
	}

	if len(args) == 0 {
		return "", nil
	}

	if args[0] == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

func stagedSource() (string, error) {
	repo, err := git.OpenCurrent()
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	diff, err := repo.StagedDiff()
	if err != nil {
		return "", fmt.Errorf("failed to get staged diff: %w", err)
	}

	files, _ := repo.StagedFiles()
	logger.Debug().Strs("files", files).Int("bytes", len(diff)).Msg("loaded staged diff")
	return diff, nil
}
