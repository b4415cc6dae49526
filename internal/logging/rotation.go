package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig holds configuration for log rotation.
type RotationConfig struct {
	// MaxSizeMB is the size in megabytes at which debug.log is rotated.
	// Zero disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept next to debug.log.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns the rotation settings used when the
// configuration file does not override them.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// RotatingWriter is an io.WriteCloser over a single log file that renames
// the file to path.1 (shifting older backups) once it would exceed the
// configured size. It is safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	path     string
	limit    int64
	backups  int
	compress bool

	file *os.File
	size int64
}

// NewRotatingWriter opens (or creates) path for appending.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:     path,
		limit:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		backups:  cfg.MaxBackups,
		compress: cfg.Compress,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

// open must be called with mu held (or before rw is shared).
func (rw *RotatingWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(rw.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = f
	rw.size = info.Size()
	return nil
}

// Write implements io.Writer. A failed rotation is reported on stderr and
// the write still goes to the current file so no log data is lost.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.limit > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.limit {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	rw.shiftBackups()

	first := rw.backupPath(1)
	renameErr := os.Rename(rw.path, first)
	if renameErr == nil && rw.compress {
		if err := gzipFile(first); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to compress %s: %v\n", first, err)
		}
	}

	if err := rw.open(); err != nil {
		return err
	}
	if renameErr != nil {
		return fmt.Errorf("failed to rename log file: %w", renameErr)
	}
	return nil
}

// shiftBackups moves path.N to path.N+1, dropping the oldest.
// Missing files are ignored.
func (rw *RotatingWriter) shiftBackups() {
	if rw.backups <= 0 {
		_ = os.Remove(rw.backupPath(1))
		_ = os.Remove(rw.backupPath(1) + ".gz")
		return
	}

	_ = os.Remove(rw.backupPath(rw.backups))
	_ = os.Remove(rw.backupPath(rw.backups) + ".gz")

	for i := rw.backups - 1; i >= 1; i-- {
		for _, ext := range []string{"", ".gz"} {
			from := rw.backupPath(i) + ext
			if _, err := os.Stat(from); err == nil {
				_ = os.Rename(from, rw.backupPath(i+1)+ext)
			}
		}
	}
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.path, n)
}

// gzipFile replaces path with path.gz.
func gzipFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path + ".gz")
		return err
	}
	if err := zw.Close(); err != nil {
		_ = dst.Close()
		_ = os.Remove(path + ".gz")
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// Size returns the number of bytes in the current log file.
func (rw *RotatingWriter) Size() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.size
}

// Path returns the path of the active log file.
func (rw *RotatingWriter) Path() string {
	return rw.path
}

// Close syncs and closes the active file. Closing twice is a no-op.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	err := rw.file.Close()
	rw.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
