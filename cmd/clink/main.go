// Command clink is a thin CLI entrypoint over internal/hostattach: it
// wires initialise()/shutdown() and a small set of subcommands, the way
// cmd/wt's root command wires config.Load and daemon.Run behind cobra.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/clinkgo/internal/history"
	"github.com/ehrlich-b/clinkgo/internal/hostattach"
)

func main() {
	var stateDirFlag string
	var promptFlag string
	var logLevelFlag string
	var quietFlag bool

	root := &cobra.Command{
		Use:   "clink",
		Short: "clink — an attachable line-editing and completion layer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(stateDirFlag, promptFlag, logLevelFlag, quietFlag)
		},
	}
	root.PersistentFlags().StringVar(&stateDirFlag, "state-dir", defaultStateDir(), "directory holding clink_settings/clink_history/clink.log")
	root.PersistentFlags().StringVar(&promptFlag, "prompt", "$ ", "prompt text for a standalone edit session")
	root.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "debug|info|warn|error")
	root.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "suppress stdout logging")

	root.AddCommand(
		historyCmd(&stateDirFlag),
		setCmd(),
		infoCmd(&stateDirFlag),
		injectCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clink"
	}
	return filepath.Join(home, ".clink")
}

// runEdit attaches, runs one editor session against the process's own
// stdin/stdout, prints the accepted line, and detaches — the standalone
// (non-hooked) way to exercise the editor loop from a real terminal.
func runEdit(stateDir, prompt, logLevel string, quiet bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := hostattach.Initialise(hostattach.Desc{
		StateDir: stateDir,
		Prompt:   prompt,
		LogLevel: logLevel,
		Quiet:    quiet,
	})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	defer a.Shutdown()

	type edited struct {
		line string
		ok   bool
	}
	done := make(chan edited, 1)
	go func() {
		line, ok := a.Kernel.Edit()
		done <- edited{line, ok}
	}()

	select {
	case got := <-done:
		if !got.ok {
			return nil
		}
		if got.line != "" {
			if _, err := a.History.Add(got.line); err != nil {
				a.Logger.Warn("add history", "err", err)
			}
		}
		fmt.Println(got.line)
		return nil
	case <-ctx.Done():
		return a.Shutdown()
	}
}

// historyCmd implements the one CLI subcommand spec.md actually pins down
// the wire format for: listing prints every live entry 1-based-indexed in
// a right-aligned 5-wide column, "clear" empties every bank, and
// "delete N" tombstones the Nth visible (1-based) entry. set/inject stay
// pure stubs and info only prints path conventions — their real bodies are
// the out-of-scope external CLI.
func historyCmd(stateDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [clear|delete N]",
		Short: "List, clear, or delete command history entries",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Shared avoids opening a throwaway session bank for a one-off CLI call.
			db, err := history.Open(history.Config{StateDir: *stateDir, Shared: true})
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close()

			if len(args) == 0 {
				return printHistory(db)
			}

			switch args[0] {
			case "clear":
				return clearHistory(db)
			case "delete":
				if len(args) != 2 {
					return fmt.Errorf("usage: clink history delete N")
				}
				return deleteHistoryEntry(db, args[1])
			default:
				return fmt.Errorf("unknown history subcommand %q", args[0])
			}
		},
	}
	return cmd
}

func printHistory(db *history.DB) error {
	entries, err := db.ReadLines()
	if err != nil {
		return err
	}
	for i, e := range entries {
		fmt.Printf("%5d  %s\n", i+1, e.Text)
	}
	return nil
}

func clearHistory(db *history.DB) error {
	entries, err := db.ReadLines()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := db.Remove(e.ID); err != nil {
			return err
		}
	}
	return nil
}

func deleteHistoryEntry(db *history.DB, indexArg string) error {
	n, err := strconv.Atoi(indexArg)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid index %q", indexArg)
	}
	entries, err := db.ReadLines()
	if err != nil {
		return err
	}
	if n > len(entries) {
		return fmt.Errorf("no entry %d (only %d visible)", n, len(entries))
	}
	return db.Remove(entries[n-1].ID)
}

// setCmd, infoCmd, and injectCmd stand in for the external CLI's settings
// editor, diagnostic dump, and key-injection debug tool — the bodies named
// out of scope by this project's editor/completion core; only the command
// surface (so "clink set ..." resolves to something) lives here, plus info's
// listing of the state directory and persisted file paths.
func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "set [name] [value]",
		Short:  "View or change a setting (external CLI body, not implemented here)",
		Hidden: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("clink set: not implemented — settings are edited via clink_settings or the embedding shell's own UI")
		},
	}
}

func infoCmd(stateDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the state directory and persisted file paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("state dir:", *stateDir)
			fmt.Println("settings:", filepath.Join(*stateDir, "clink_settings"))
			fmt.Println("history (master):", filepath.Join(*stateDir, "clink_history"))
			fmt.Println("log:", filepath.Join(*stateDir, "clink.log"))
			return nil
		},
	}
}

func injectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject",
		Short: "Inject a key sequence into a running attached shell (external CLI body, not implemented here)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("clink inject: not implemented — cross-process key injection is an external-CLI concern")
		},
	}
}
