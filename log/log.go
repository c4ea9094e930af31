package log

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/motemen/go-loghttp"
)

// Logger is the global logger instance
var Logger *slog.Logger

var level = new(slog.LevelVar)

// InitLogger initializes the global logger writing to w.
// It sets the log level to Debug if SCRAPEVIEW_DEBUG is set
func InitLogger(w io.Writer) {
	level.Set(slog.LevelInfo)
	if os.Getenv("SCRAPEVIEW_DEBUG") != "" {
		level.Set(slog.LevelDebug)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	loghttp.DefaultTransport.LogRequest = func(req *http.Request) {
		Debug("HTTP request",
			"method", req.Method,
			"url", req.URL.String(),
			"headers", req.Header,
		)
	}

	loghttp.DefaultTransport.LogResponse = func(resp *http.Response) {
		Debug("HTTP response",
			"method", resp.Request.Method,
			"url", resp.Request.URL.String(),
			"status", resp.Status,
			"status_code", resp.StatusCode,
			"headers", resp.Header,
		)
	}
}

// init initializes the logger when the package is imported
func init() {
	InitLogger(os.Stderr)
}

// Transport returns the round tripper that logs every request and response
// at debug level.
func Transport() http.RoundTripper {
	return loghttp.DefaultTransport
}

// DefaultLogFile returns the file logs go to while the full-screen UI owns the
// terminal. SCRAPEVIEW_LOG_FILE overrides the location under the user cache dir.
func DefaultLogFile() string {
	if p := os.Getenv("SCRAPEVIEW_LOG_FILE"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "scrapeview", "scrapeview.log")
}

// RedirectToFile reinitializes the logger to append to path. The returned
// function closes the file and restores logging to stderr.
func RedirectToFile(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	InitLogger(f)
	return func() {
		InitLogger(os.Stderr)
		f.Close()
	}, nil
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
