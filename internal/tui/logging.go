package tui

import (
	"log"
	"os"
	"path/filepath"

	"github.com/ajramos/giztriage/internal/config"
)

// initLogger initializes file logger under ~/.config/giztriage/giztriage.log if possible
func (a *App) initLogger() {
	if a.logger != nil && a.logFile != nil {
		return
	}
	path := ""
	if a.Config != nil {
		path = a.Config.LogFile
	}
	f, err := OpenLogFile(path)
	if err != nil {
		return
	}
	a.logFile = f
	a.logger = log.New(f, "[giztriage] ", log.LstdFlags|log.Lmicroseconds)
}

// OpenLogFile opens path for appending, or the default log file when path
// is empty
func OpenLogFile(path string) (*os.File, error) {
	if path == "" {
		dir := config.DefaultLogDir()
		if dir == "" {
			return nil, os.ErrNotExist
		}
		path = filepath.Join(dir, "giztriage.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// closeLogger closes the log file if opened
func (a *App) closeLogger() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *App) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
