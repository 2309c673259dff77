package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/192005chandrakant/credlens/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Never print credentials.
		cfg.LLM.APIKey = redact(cfg.LLM.APIKey)
		cfg.Evidence.FactCheckAPIKey = redact(cfg.Evidence.FactCheckAPIKey)

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.credlens/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		dir := filepath.Join(home, ".credlens")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		out, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal defaults: %w", err)
		}
		if err := os.WriteFile(path, out, 0o600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
