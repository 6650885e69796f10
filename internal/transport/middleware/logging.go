package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

// sensitiveFields must never reach the logs, neither in headers nor in
// request or response bodies.
var sensitiveFields = []string{
	"password",
	"password_hash",
	"token",
	"access_token",
	"refresh_token",
	"authorization",
	"secret",
	"credential",
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// LoggingMiddleware logs every request and response pair, keyed by the chi
// request id, with credentials redacted.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			logRequest(logger, r, reqID)

			ww := &responseWriter{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(ww, r)

			logResponse(logger, ww, time.Since(start), reqID)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func logRequest(logger *slog.Logger, r *http.Request, reqID string) {
	var bodyBytes []byte
	if r.Body != nil {
		bodyBytes, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	logger.Info("incoming request",
		"request_id", reqID,
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", redactHeaders(r.Header),
		"body", redactBody(bodyBytes),
	)
}

func logResponse(logger *slog.Logger, rw *responseWriter, duration time.Duration, reqID string) {
	statusCode := rw.statusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	level := slog.LevelInfo
	if statusCode >= 500 {
		level = slog.LevelError
	} else if statusCode >= 400 {
		level = slog.LevelWarn
	}

	logger.Log(nil, level, "response",
		"request_id", reqID,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"response_size", rw.body.Len(),
		"body", redactBody(rw.body.Bytes()),
	)
}

func redactHeaders(headers http.Header) map[string]string {
	redacted := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			redacted[name] = "[FILTERED]"
			continue
		}
		redacted[name] = strings.Join(values, ", ")
	}
	return redacted
}

// redactBody masks sensitive fields in JSON bodies. Non-JSON payloads are
// dropped wholesale when they look like they carry credentials.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED]"
		}
		return string(body)
	}

	redactedBytes, err := json.Marshal(redactJSON(parsed))
	if err != nil {
		return "[FILTERED]"
	}
	return string(redactedBytes)
}

func redactJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		redacted := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				redacted[key] = "[FILTERED]"
				continue
			}
			redacted[key] = redactJSON(value)
		}
		return redacted
	case []interface{}:
		redacted := make([]interface{}, len(v))
		for i, item := range v {
			redacted[i] = redactJSON(item)
		}
		return redacted
	default:
		return v
	}
}
