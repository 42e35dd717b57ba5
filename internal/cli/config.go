package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/buker/critic/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and manage critic configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		keyState := "not set"
		if os.Getenv(cfg.AI.APIKeyEnv) != "" {
			keyState = "set"
		}

		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintln(out, "----------------------")
		fmt.Fprintf(out, "AI provider:     %s\n", cfg.AI.Provider)
		fmt.Fprintf(out, "AI model:        %s\n", cfg.AI.Model)
		fmt.Fprintf(out, "API key env:     %s (%s)\n", cfg.AI.APIKeyEnv, keyState)
		fmt.Fprintf(out, "Timeout:         %s\n", timeoutLabel(cfg.AI.Timeout))
		fmt.Fprintf(out, "Ollama URL:      %s\n", cfg.Ollama.URL)
		fmt.Fprintf(out, "Render style:    %s\n", cfg.Render.Style)
		fmt.Fprintf(out, "Render width:    %s\n", widthLabel(cfg.Render.Width))
		fmt.Fprintf(out, "Log level:       %s\n", cfg.Log.Level)
		fmt.Fprintf(out, "Log file:        %s\n", cfg.Log.File)
		return nil
	},
}

func timeoutLabel(seconds int) string {
	if seconds <= 0 {
		return "none"
	}
	return fmt.Sprintf("%ds", seconds)
}

func widthLabel(width int) string {
	if width <= 0 {
		return "terminal"
	}
	return fmt.Sprintf("%d", width)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := config.GetConfigPath()
		if path == "" {
			fmt.Fprintln(out, "No config file found. Create one at:")
			fmt.Fprintln(out, "  ~/.critic.yaml (global)")
			fmt.Fprintln(out, "  ./.critic.yaml (project)")
		} else {
			fmt.Fprintf(out, "Config file: %s\n", path)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		local, _ := cmd.Flags().GetBool("local")

		path := config.GetDefaultConfigPath()
		if local {
			path = ".critic.yaml"
		}

		if err := config.WriteDefault(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("local", false, "Write ./.critic.yaml instead of ~/.critic.yaml")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
