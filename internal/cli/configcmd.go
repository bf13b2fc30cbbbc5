package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/raphaelgruber/kondo-go/internal/config"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the kondo.toml configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Path != "" {
			fmt.Printf("# loaded from %s\n", cfg.Path)
		}
		for _, w := range cfg.Warnings() {
			fmt.Printf("# warning: %s\n", w)
		}
		return config.Encode(os.Stdout, cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Init writes the built-in defaults to the configuration file. An existing file
is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil {
			if !configInitForce {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove existing config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config file: %w", err)
		}

		defaults := config.Default()
		defaults.LogFile = config.DefaultLogFile(path)
		if err := config.WriteDefault(path, defaults); err != nil {
			return err
		}
		fmt.Println(defaultTheme.completedStyle().Render("✓ Wrote " + path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
