package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/autoprop"
)

var watchTrigger string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep auto-properties in sync while notes change",
	Long: `watch reacts to notes being created or modified and updates their auto-properties.

With --trigger focus it instead reads note IDs from stdin, one per line, and treats each
line as the editor switching to that note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		trigger := autoprop.Trigger(watchTrigger)
		if trigger != autoprop.TriggerModify && trigger != autoprop.TriggerFocus {
			return fmt.Errorf("unknown trigger %q (want modify or focus)", watchTrigger)
		}

		eng, err := openEngine(autoprop.WithTrigger(trigger))
		if err != nil {
			return fmt.Errorf("failed to open vault: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if trigger == autoprop.TriggerFocus {
			return readFocus(ctx, eng)
		}
		return eng.Run(ctx)
	},
}

// readFocus feeds every stdin line to the engine as a focus change until EOF or ctx ends.
func readFocus(ctx context.Context, eng *autoprop.Engine) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			slog.Error("failed to read stdin", "error", err)
		}
	}()

	slog.Info("reading focused note IDs from stdin")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if id := strings.TrimSpace(line); id != "" {
				eng.Focus(ctx, id)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchTrigger, "trigger", string(autoprop.TriggerModify), "Notifications to react to: modify or focus")
}
