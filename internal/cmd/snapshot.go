package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/bridgehost/internal/bridge"
	"github.com/Iron-Ham/bridgehost/internal/config"
	"github.com/Iron-Ham/bridgehost/internal/logging"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Run sessions without a UI and print the live set",
	Long: `Run the simulated sessions for a while with no UI attached, then print
the bridges that are live at the end as YAML.

Examples:
  # Run for the default 5 seconds
  bridgehost snapshot

  # Reproducible run
  BRIDGEHOST_SIMULATE_SEED=42 bridgehost snapshot --duration 2s`,
	RunE: runSnapshot,
}

var snapshotDuration time.Duration

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().DurationVarP(&snapshotDuration, "duration", "d", 5*time.Second, "how long to run before taking the snapshot")
}

// snapshotReport is the YAML document printed by the snapshot command.
type snapshotReport struct {
	Taken         time.Time        `yaml:"taken"`
	Duration      string           `yaml:"duration"`
	ResizeAllowed bool             `yaml:"resize_allowed"`
	Bridges       []snapshotBridge `yaml:"bridges"`
}

type snapshotBridge struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Cols  int    `yaml:"cols"`
	Rows  int    `yaml:"rows"`
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if snapshotDuration < 0 {
		return fmt.Errorf("invalid duration: %s", snapshotDuration)
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	report, err := takeSnapshot(cmdContext(cmd), cfg, logger, snapshotDuration)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

func takeSnapshot(ctx context.Context, cfg *config.Config, logger *logging.Logger, d time.Duration) (*snapshotReport, error) {
	h := newHost(cfg, logger)
	defer h.shutdown()

	if err := h.driver.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start sessions: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(d):
	}

	return buildReport(h.manager.Snapshot(), h.manager.ResizeAllowed(), d), nil
}

func buildReport(live []*bridge.Bridge, resizeAllowed bool, d time.Duration) *snapshotReport {
	report := &snapshotReport{
		Taken:         time.Now().UTC(),
		Duration:      d.String(),
		ResizeAllowed: resizeAllowed,
		Bridges:       make([]snapshotBridge, 0, len(live)),
	}
	for _, b := range live {
		cols, rows := b.Geometry()
		report.Bridges = append(report.Bridges, snapshotBridge{
			ID:    b.ID(),
			Label: b.Label(),
			Cols:  cols,
			Rows:  rows,
		})
	}
	return report
}
