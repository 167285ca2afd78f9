package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/platform/logger"
	"github.com/abhisek/examprep/internal/store"
)

// env holds what a command needs for one invocation.
type env struct {
	store *store.Store
	log   *logger.Logger
	svc   *app.Service
	user  string
}

// openEnv opens the store and builds the app service. withLLM enables the
// configured LLM provider; a misconfigured provider is reported and the
// command continues without it.
func openEnv(cmd *cobra.Command, withLLM bool) (*env, error) {
	mode, _ := cmd.Flags().GetString("log")
	log, err := logger.New(mode)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	opts := app.Options{Store: st, Logger: log}
	if withLLM {
		provider, err := llm.NewProvider(cmd.Context(), llm.ConfigFromEnv(), st.EventRepo(), log)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Falling back to template briefings.")
		} else {
			opts.Provider = provider
		}
	}

	svc, err := app.New(opts)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &env{store: st, log: log, svc: svc, user: userFlag(cmd)}, nil
}

func (e *env) Close() {
	e.log.Sync()
	if err := e.store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close store:", err)
	}
}

// output downsamples styled text to what the terminal supports and strips
// it entirely when stdout is not a terminal.
func output(cmd *cobra.Command) io.Writer {
	return colorprofile.NewWriter(cmd.OutOrStdout(), os.Environ())
}
