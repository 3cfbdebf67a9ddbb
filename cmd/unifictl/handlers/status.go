package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/homelab-infra/unifictl/internal/state"
	"github.com/homelab-infra/unifictl/internal/ui/status"
)

// historyLimit bounds the applies listed by status --history.
const historyLimit = 20

// isInteractive reports whether output goes to a terminal.
var isInteractive = func() bool {
	return status.IsInteractive(os.Stdout)
}

// Status prints the outputs of the last apply. With jsonOutput the outputs
// are printed as JSON; with history the recent applies of a sqlite state
// backend are listed instead.
func Status(ctx context.Context, configPath string, jsonOutput, history bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, out, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if history {
		return printHistory(ctx, store, cfg.State.Backend, jsonOutput)
	}

	if out == nil {
		return fmt.Errorf("stack %s has no state: run 'unifictl apply' first", cfg.Stack)
	}

	if jsonOutput {
		return writeJSON(out)
	}
	return status.Render(stdout, out, isInteractive())
}

func printHistory(ctx context.Context, store state.Store, backend string, jsonOutput bool) error {
	hs, ok := store.(state.HistoryStore)
	if !ok {
		return errors.New("state backend " + backend + " does not keep history, use the sqlite backend")
	}

	entries, err := hs.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if jsonOutput {
		if entries == nil {
			entries = []*state.Outputs{}
		}
		return writeJSON(entries)
	}
	return status.RenderHistory(stdout, entries, isInteractive())
}

func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
