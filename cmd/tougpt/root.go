package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tougpt/pkg/settings"
	"tougpt/pkg/storage"
	"tougpt/pkg/ui"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(newApp())
}

func newRootCmdWithApp(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tougpt",
		Short: "Ask the university Q&A assistant from your terminal",
		Long: "tougpt keeps several chats with the Q&A assistant, saves them between runs, " +
			"and opens a full screen chat interface when started without a subcommand.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.tougpt/config.json)")
	flags.StringVar(&a.serverURL, "server", "", "Q&A server URL, overrides server_url")
	flags.StringVar(&a.backend, "storage", "", "storage backend: file, sqlite, redis or memory")

	rootCmd.AddCommand(
		newAskCmd(a),
		newChatsCmd(a),
		newConfigCmd(a),
		newHealthCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (a *app) runTUI(ctx context.Context) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("the chat interface needs a terminal; use 'tougpt ask' in scripts")
	}
	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.close()

	model := ui.NewModel(ctx, a.manager, a.prefs, ui.Options{ServerURL: a.cfg.ServerURL})
	p := tea.NewProgram(model, tea.WithContext(ctx))

	// Send blocks until the event loop receives, and listeners may fire from
	// inside Update.
	a.prefs.OnChange(func(change settings.Change) {
		go p.Send(ui.PreferencesChangedMsg{Change: change})
	})

	if w, ok := a.store.(storage.Watchable); ok {
		if err := w.StartWatching(a.prefs.HandleStorageChange); err != nil {
			a.logger.Warn("storage_watch_failed", "error", err)
		} else {
			defer w.StopWatching()
		}
	}

	a.logger.Info("tui_start", "chats", len(a.manager.Chats()), "active_chat_id", a.manager.ActiveChatID())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running chat interface: %w", err)
	}
	a.logger.Info("tui_exit")
	return nil
}
