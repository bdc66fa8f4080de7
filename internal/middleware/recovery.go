package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// PanicHandler writes the response after a handler panicked.
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery turns a panicking handler into a logged 500.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	if handler == nil {
		handler = DefaultPanicHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					handler(w, r, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultPanicHandler answers JSON for /api paths and plain text elsewhere.
func DefaultPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`))
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
