package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

func init() {
	// Silence the default charmbracelet/log logger
	// All logging should go through our custom logger instance
	log.SetLevel(log.FatalLevel)
}

var (
	// Log is the global logger instance
	Log *log.Logger

	// logFile is the file handle for the log file
	logFile *os.File
)

// Init initializes the logger with the given verbosity level
// When verbose is false, logs go to file only
// When verbose is true, logs go to both file and stderr
func Init(verbose bool) error {
	logPath := GetLogPath()

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		Log = stderrLogger(verbose)
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		Log = stderrLogger(verbose)
		return nil
	}

	var output io.Writer = logFile
	if verbose {
		output = io.MultiWriter(logFile, os.Stderr)
	}

	Log = log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
	})

	if verbose {
		Log.SetLevel(log.DebugLevel)
	} else {
		Log.SetLevel(log.InfoLevel)
	}

	return nil
}

// stderrLogger is used when the log file cannot be opened
func stderrLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for headless callers
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// For returns the global logger tagged with component, or a discarding
// logger before Init
func For(component string) *log.Logger {
	if Log == nil {
		return Discard()
	}
	return Log.WithPrefix(component)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// GetLogPath returns the path to the log file
func GetLogPath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		homeDir, _ := os.UserHomeDir()
		cacheDir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheDir, "modscan", "modscan.log")
}

// Convenience functions that use the global logger

func Debug(msg interface{}, keyvals ...interface{}) {
	if Log != nil {
		Log.Debug(msg, keyvals...)
	}
}

func Info(msg interface{}, keyvals ...interface{}) {
	if Log != nil {
		Log.Info(msg, keyvals...)
	}
}

func Warn(msg interface{}, keyvals ...interface{}) {
	if Log != nil {
		Log.Warn(msg, keyvals...)
	}
}

func Error(msg interface{}, keyvals ...interface{}) {
	if Log != nil {
		Log.Error(msg, keyvals...)
	}
}
