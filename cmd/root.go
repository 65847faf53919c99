// Package cmd implements the command-line interface of the review extractor.
// It provides the root command and the extract, run and schedule subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/reviews/cmd/extract"
	cmdrun "github.com/jonesrussell/north-cloud/reviews/cmd/run"
	"github.com/jonesrussell/north-cloud/reviews/cmd/schedule"
	"github.com/jonesrussell/north-cloud/reviews/internal/config"
)

// version is set at build time with -ldflags "-X .../cmd.version=..."
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command of the CLI.
	rootCmd = &cobra.Command{
		Use:   "reviews",
		Short: "Extract customer reviews from marketplace product pages",
		Long: `Extract customer reviews from MercadoLibre, Amazon and generic
product pages with a headless browser, and store them as JSON files,
Elasticsearch documents or PostgreSQL rows.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	// Parse flags early to get --config and --debug before reading configuration
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reviews version %s\n", version)
		},
	})

	rootCmd.AddCommand(extract.Command())
	rootCmd.AddCommand(cmdrun.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads the config file and environment variables into the global viper.
func initConfig() error {
	v := viper.GetViper()

	if err := v.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}

	return config.InitializeViper(v, cfgFile)
}
