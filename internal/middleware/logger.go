package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	maxLoggedBody   = 4096
	maxLoggedString = 256 // longer values, such as base64 logos, are summarized
	redacted        = "[REDACTED]"
)

var (
	sensitiveHeader = regexp.MustCompile(`(?i)authorization|api[-_]?key|token|secret|cookie|session`)
	sensitiveField  = regexp.MustCompile(`(?i)password|token|api_?key|secret|authorization|credential|session|cookie|account_?number|routing_?code|upi_?id`)
)

// RequestLogger logs every request through logger. JSON request bodies are
// included at debug level with sensitive fields redacted; binary bodies never are.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var requestBody []byte
		if logger.Enabled(c.Request.Context(), slog.LevelDebug) && isJSON(c.ContentType()) && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// Restore the body for the next handler
			c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.Int("bytes", c.Writer.Size()),
		}
		if requestID := c.GetString("request_id"); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		if len(requestBody) > 0 {
			attrs = append(attrs,
				slog.Any("headers", redactHeaders(c.Request.Header)),
				slog.Any("request_body", bodyForLog(requestBody)),
			)
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}

func redactHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeader.MatchString(key) {
			out[key] = redacted
			continue
		}
		out[key] = strings.Join(values, ", ")
	}
	return out
}

// bodyForLog decodes a JSON body and scrubs it; invalid JSON is logged truncated
func bodyForLog(body []byte) any {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		if len(body) > maxLoggedBody {
			return string(body[:maxLoggedBody]) + "... (truncated)"
		}
		return string(body)
	}
	return scrub(decoded)
}

// scrub redacts sensitive object keys and summarizes oversized strings
func scrub(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			if sensitiveField.MatchString(key) {
				val[key] = redacted
				continue
			}
			val[key] = scrub(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = scrub(child)
		}
		return val
	case string:
		if len(val) > maxLoggedString {
			return fmt.Sprintf("[%d chars]", len(val))
		}
		return val
	default:
		return v
	}
}
