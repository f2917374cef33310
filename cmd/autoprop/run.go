package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aretw0/autoprop/pkg/engine"
)

var (
	runAll    bool
	runDryRun bool
	runJSON   bool
)

var runCmd = &cobra.Command{
	Use:   "run [id...]",
	Short: "Update auto-properties of the given notes, or of every note with --all",
	Example: `  autoprop run daily/2024-05-01
  autoprop run --all
  autoprop run --all --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runAll == (len(args) > 0) {
			return fmt.Errorf("pass note IDs or --all, not both")
		}

		eng, err := openEngine()
		if err != nil {
			return fmt.Errorf("failed to open vault: %w", err)
		}
		ctx := cmd.Context()

		if runAll && !runDryRun {
			report, err := eng.ApplyAll(ctx)
			if err != nil {
				return err
			}
			return printReport(report)
		}

		ids := args
		if runAll {
			// Dry runs of the whole vault evaluate every note without writing.
			ids, err = eng.List(ctx)
			if err != nil {
				return err
			}
		}

		failed := 0
		for _, id := range ids {
			var res engine.Result
			if runDryRun {
				res, err = eng.Evaluate(ctx, id)
			} else {
				res, err = eng.Apply(ctx, id)
			}
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", id, err)
				continue
			}
			printResult(res, runDryRun)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d notes failed", failed, len(ids))
		}
		return nil
	},
}

func printResult(res engine.Result, dryRun bool) {
	if runJSON {
		_ = json.NewEncoder(os.Stdout).Encode(res)
		return
	}
	if len(res.Patch) == 0 {
		fmt.Printf("%s: up to date\n", res.ID)
		return
	}
	verb := "updated"
	if dryRun {
		verb = "would update"
	}
	keys := make([]string, 0, len(res.Patch))
	for k := range res.Patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s: %s\n", res.ID, verb)
	for _, k := range keys {
		fmt.Printf("  %s: %v\n", k, res.Patch[k])
	}
}

func printReport(r engine.Report) error {
	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Printf("run %s: scanned %d, updated %d, skipped %d, failed %d\n",
		r.RunID, r.Scanned, r.Updated, r.Skipped, len(r.Failures))
	for _, f := range r.Failures {
		fmt.Printf("  %s: %v\n", f.ID, f.Err)
	}
	if len(r.Failures) > 0 {
		return fmt.Errorf("%d notes failed", len(r.Failures))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runAll, "all", false, "Update every note in the vault")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Show what would change without writing")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output in JSON format")
}
