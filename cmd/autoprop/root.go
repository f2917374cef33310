package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/autoprop"
	"github.com/aretw0/autoprop/pkg/engine"
)

var (
	verbose   bool
	vaultPath string
	readOnly  bool
	versioned bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autoprop",
	Short: "Keep markdown frontmatter properties in sync with note bodies",
	Long: `autoprop derives frontmatter values from the body of each note: the first line
starting with "Summary:", every #tag line, the number of open tasks, the created or
modified time. Run it once over a vault or leave it watching for edits.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: nearest vault root above the working directory)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the vault")
	rootCmd.PersistentFlags().BoolVar(&versioned, "git", false, "Commit every update to git")
}

// resolveVault returns the --vault flag, or the nearest vault root, or the working directory.
func resolveVault() (string, error) {
	if vaultPath != "" {
		return vaultPath, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := autoprop.FindVaultRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

// openEngine wires an engine over the resolved vault with the global flags applied.
func openEngine(extra ...autoprop.Option) (*autoprop.Engine, error) {
	root, err := resolveVault()
	if err != nil {
		return nil, err
	}

	opts := []autoprop.Option{
		autoprop.WithMustExist(true),
		autoprop.WithLogger(slog.Default()),
		autoprop.WithReadOnly(readOnly),
		autoprop.WithVersioning(versioned),
		autoprop.WithNotifier(engine.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})),
	}
	return autoprop.New(root, append(opts, extra...)...)
}
