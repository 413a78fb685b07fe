// Package cmd implements the rigctl command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rigforge/rigctl/internal/app"
	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/system"
)

var (
	cfgPath string
	force   bool
	dryRun  bool

	skipFileLocations bool
	skipTerminal      bool
	skipSoftware      bool
	skipExplorer      bool
	skipGitHub        bool

	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "rigctl",
	Short: "Reconcile a workstation against its declarative configuration",
	Long: `rigctl reads a declarative configuration describing the desired
filesystem layout, terminal appearance, installed software, explorer
settings, and Git/GitHub identity, compares it with the live machine
state, and applies the differences.

Without --force or --dry-run, rigctl offers an interactive menu to run
domains one at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, nil)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath, system.DefaultFS())
		if err != nil {
			return err
		}

		a := app.New(app.WithConfig(cfg))
		opts := options{
			Force:  force,
			DryRun: dryRun,
			Plain:  !isTerminal(os.Stdout),
			Skip: map[reconcile.Domain]bool{
				reconcile.DomainFileLocations: skipFileLocations,
				reconcile.DomainTerminal:      skipTerminal,
				reconcile.DomainSoftware:      skipSoftware,
				reconcile.DomainExplorer:      skipExplorer,
				reconcile.DomainIdentity:      skipGitHub,
			},
		}
		return run(cmd.Context(), a, opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "rigctl.json", "path to the configuration file")
	rootCmd.Flags().BoolVar(&force, "force", false, "run every domain once without prompting")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan only: print the change summary and exit")

	rootCmd.Flags().BoolVar(&skipFileLocations, "skip-file-locations", false, "skip the file locations domain")
	rootCmd.Flags().BoolVar(&skipTerminal, "skip-terminal", false, "skip the terminal domain")
	rootCmd.Flags().BoolVar(&skipSoftware, "skip-software", false, "skip the software domain")
	rootCmd.Flags().BoolVar(&skipExplorer, "skip-explorer", false, "skip the explorer domain")
	rootCmd.Flags().BoolVar(&skipGitHub, "skip-github", false, "skip the identity domain")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "log in JSON format")
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
