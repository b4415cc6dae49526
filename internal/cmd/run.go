package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/bridgehost/internal/config"
	"github.com/Iron-Ham/bridgehost/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the session host and attach a UI",
	Long: `Start the session host with simulated sessions and attach the terminal UI.

The UI can be quit at any time. With --headless, or when stdout is not a
terminal, view changes are printed as lines of text instead.

Edits to the config file while running are applied live: the log level
and the simulator interval take effect immediately.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "print view changes instead of running the interactive UI")
	_ = viper.BindPFlag("tui.headless", runCmd.Flags().Lookup("headless"))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	h := newHost(cfg, logger)
	defer h.shutdown()

	if viper.ConfigFileUsed() != "" {
		config.Watch(h.apply, func(err error) {
			logger.Warn("config reload rejected", "error", err.Error())
		})
	}

	if err := h.driver.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sessions: %w", err)
	}

	headless := cfg.TUI.Headless || !term.IsTerminal(int(os.Stdout.Fd()))
	logger.Info("host running", "headless", headless)

	if headless {
		return tui.RunHeadless(ctx, h.coordinator, tui.NewHeadless(h.manager, cmd.OutOrStdout()))
	}

	app := tui.New(tui.Config{
		Coordinator:  h.coordinator,
		Source:       h.manager,
		Disconnector: h.driver,
		Logger:       logger,
	})
	return app.Run(ctx)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
