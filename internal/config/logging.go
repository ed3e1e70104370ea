package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// OpenLogFile creates a timestamped log file under dir and prunes older
// files so at most keep remain. The caller owns the returned handle.
func OpenLogFile(dir string, keep int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := filepath.Join(dir, "atlas-"+time.Now().Format("2006-01-02T15-04-05")+".log")
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Prune failures are non-fatal; logging still works.
	if err := pruneLogs(dir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

func pruneLogs(dir string, keep int) error {
	files, err := filepath.Glob(filepath.Join(dir, "atlas-*.log"))
	if err != nil || len(files) <= keep {
		return err
	}

	// Timestamped names sort chronologically.
	sort.Strings(files)
	for _, stale := range files[:len(files)-keep] {
		if err := os.Remove(stale); err != nil {
			return fmt.Errorf("remove %s: %w", stale, err)
		}
	}
	return nil
}
