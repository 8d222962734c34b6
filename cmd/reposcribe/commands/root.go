// Package commands implements the reposcribe command line.
package commands

import (
	"fmt"
	"os"

	"github.com/jrsteele09/reposcribe/internal/app"
	"github.com/jrsteele09/reposcribe/internal/config"
	"github.com/jrsteele09/reposcribe/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reposcribe",
		Short: "Generate README documentation for your GitHub repositories",
		Long: `reposcribe signs you in with GitHub, lists your repositories and asks the
RepoScribe service to write documentation for one of them.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file with configuration values")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewWhoamiCommand())
	rootCmd.AddCommand(NewReposCommand())
	rootCmd.AddCommand(NewGenerateCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if configFile != "" {
		if err := config.LoadFile(configFile); err != nil {
			return err
		}
	}
	c := config.New()
	level := c.GetLogLevel()
	if verbose {
		level = "debug"
	} else if cmd.Name() != "serve" {
		// Keep command output readable; the web server logs at the configured level.
		level = "warn"
	}
	logging.Setup(c.GetEnv(), level, cmd.ErrOrStderr())
	return nil
}

// openApp builds the application from configuration. Callers close it.
func openApp() (*app.App, error) {
	a, err := app.New(config.New())
	if err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return a, nil
}
