package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/bridgehost/internal/config"
	"github.com/Iron-Ham/bridgehost/internal/logging"
	"github.com/Iron-Ham/bridgehost/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View host logs",
	Long: `View and filter the bridgehost debug log.

Examples:
  # Show last 50 lines
  bridgehost logs

  # Follow logs in real-time
  bridgehost logs -f

  # Only one bridge, warnings and above
  bridgehost logs --bridge 3f2a... --level warn

  # Show logs from the last hour matching a pattern
  bridgehost logs --since 1h --grep "close|prompt"`,
	RunE: runLogs,
}

var (
	logsFile   string
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
	logsBridge string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsFile, "file", "", "Log file (default: debug.log in the logging directory)")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsBridge, "bridge", "", "Only show entries for this bridge ID")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time     time.Time      `json:"time"`
	Level    string         `json:"level"`
	Msg      string         `json:"msg"`
	BridgeID string         `json:"bridge_id,omitempty"`
	Phase    string         `json:"phase,omitempty"`
	Extra    map[string]any `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	type alias logEntry
	if err := json.Unmarshal(data, (*alias)(e)); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "bridge_id", "phase"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

var (
	logTimeStyle  = lipgloss.NewStyle().Foreground(styles.MutedColor)
	logFieldStyle = lipgloss.NewStyle().Foreground(styles.PrimaryColor)
)

// levelStyle returns the style for a log level
func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return styles.Muted
	case logging.LevelInfo:
		return styles.Secondary
	case logging.LevelWarn:
		return styles.Warning
	case logging.LevelError:
		return styles.Error
	default:
		return lipgloss.NewStyle()
	}
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(logTimeStyle.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level).Render("[" + strings.ToUpper(entry.Level) + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	field := func(k string, v any) {
		sb.WriteString(" ")
		sb.WriteString(logFieldStyle.Render(k + "="))
		sb.WriteString(fmt.Sprintf("%v", v))
	}
	if entry.Phase != "" {
		field("phase", entry.Phase)
	}
	if entry.BridgeID != "" {
		field("bridge_id", entry.BridgeID)
	}

	keys := make([]string, 0, len(entry.Extra))
	for k := range entry.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field(k, entry.Extra[k])
	}

	return sb.String()
}

// logFilter holds the parsed filter flags
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
	bridgeID string
}

func newLogFilter(level, since, grep, bridgeID string) (*logFilter, error) {
	f := &logFilter{minLevel: -1, bridgeID: bridgeID}

	if level != "" {
		f.minLevel = levelPriority(logging.ParseLevel(level))
	}

	if since != "" {
		d, err := time.ParseDuration(since)
		if err != nil {
			return nil, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-d)
	}

	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return nil, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}

	return f, nil
}

// passes checks if a log entry passes all filter criteria
func (f *logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}
	if f.bridgeID != "" && entry.BridgeID != f.bridgeID {
		return false
	}
	if f.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}

// formatLine parses and filters one raw line. ok is false when the line
// is filtered out. Lines that are not JSON are passed through unchanged.
func (f *logFilter) formatLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !f.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

func runLogs(cmd *cobra.Command, args []string) error {
	logPath := logsFile
	if logPath == "" {
		cfg := config.Get()
		logPath = filepath.Join(cfg.Logging.ResolveDir(), logging.LogFileName)
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	filter, err := newLogFilter(logsLevel, logsSince, logsGrep, logsBridge)
	if err != nil {
		return err
	}

	if logsFollow {
		return followLogs(cmdContext(cmd), out, logPath, filter)
	}
	return displayLogs(out, logPath, logsTail, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(w io.Writer, logPath string, tail int, filter *logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if line, ok := filter.formatLine(scanner.Text()); ok {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
	}
	return nil
}

// followLogs implements tail -f behavior for the log file. It watches the
// directory so that a rotation, which renames debug.log away and creates a
// new one, is followed onto the new file.
func followLogs(ctx context.Context, w io.Writer, logPath string, filter *logFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { file.Close() }()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	reader := bufio.NewReader(file)

	fmt.Fprintf(w, "Following %s... (Ctrl+C to stop)\n\n", logPath)

	// partial holds a line whose newline has not been written yet.
	var partial string
	drain := func() error {
		for {
			line, err := reader.ReadString('\n')
			if err == io.EOF {
				partial += line
				return nil
			}
			if err != nil {
				return fmt.Errorf("error reading log file: %w", err)
			}
			line, partial = partial+line, ""
			if out, ok := filter.formatLine(line); ok {
				fmt.Fprintln(w, out)
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(logPath) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write):
				if err := drain(); err != nil {
					return err
				}
			case ev.Has(fsnotify.Create):
				// Rotated: start over on the new file.
				next, err := os.Open(logPath)
				if err != nil {
					continue
				}
				file.Close()
				file = next
				reader = bufio.NewReader(file)
				partial = ""
				if err := drain(); err != nil {
					return err
				}
			}
		}
	}
}
