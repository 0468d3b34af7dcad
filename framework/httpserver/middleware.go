package httpserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type Middleware func(next http.Handler) http.Handler

type requestIDKey struct{}

func RequestIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(statusCode int) {
	if !w.wrote {
		w.status = statusCode
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if !w.wrote {
		w.status = http.StatusOK
		w.wrote = true
	}
	return w.ResponseWriter.Write(p)
}

func (w *statusWriter) Flush() {
	if !w.wrote {
		w.status = http.StatusOK
		w.wrote = true
	}
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func wrapWriter(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w}
}

// RequestLog assigns a request ID (reusing a valid incoming one) and logs
// every completed request.
func RequestLog(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()

			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			sw := wrapWriter(w)
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("elapsed", time.Since(started)),
			)
		})
	}
}

// Recover turns a panicking handler into a call to respond. The detail
// passed to respond carries the panic value and stack trace.
func Recover(logger *slog.Logger, respond func(w http.ResponseWriter, r *http.Request, detail string)) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrapWriter(w)
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := debug.Stack()
				logger.LogAttrs(r.Context(), slog.LevelError, "panic serving request",
					slog.String("request_id", RequestIDFromContext(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprint(recovered)),
					slog.String("stack", string(stack)),
				)

				if sw.wrote {
					return
				}
				sw.Header().Del("Content-Length")
				respond(sw, r, fmt.Sprintf("panic: %v\n\n%s", recovered, stack))
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// HSTS adds Strict-Transport-Security to responses served over TLS.
func HSTS(opts HSTSOptions) Middleware {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}

	value := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10)
	if opts.IncludeSubDomains {
		value += "; includeSubDomains"
	}
	if opts.Preload {
		value += "; preload"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil && !isLoopbackHost(r.Host) {
				w.Header().Set("Strict-Transport-Security", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HTTPSRedirect answers plain HTTP requests with a temporary redirect to the
// same URL on httpsPort. A non-positive port disables the redirect.
func HTTPSRedirect(httpsPort int) Middleware {
	return func(next http.Handler) http.Handler {
		if httpsPort <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil {
				next.ServeHTTP(w, r)
				return
			}

			host := r.Host
			if hostname, _, err := net.SplitHostPort(host); err == nil {
				host = hostname
			}
			if strings.Contains(host, ":") {
				host = "[" + host + "]"
			}
			if httpsPort != 443 {
				host += ":" + strconv.Itoa(httpsPort)
			}

			http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusTemporaryRedirect)
		})
	}
}

// Antiforgery rejects state-changing cross-origin browser requests.
func Antiforgery(trustedOrigins []string) (Middleware, error) {
	protection := http.NewCrossOriginProtection()
	for _, origin := range trustedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if err := protection.AddTrustedOrigin(origin); err != nil {
			return nil, fmt.Errorf("trusted origin %q: %w", origin, err)
		}
	}

	return func(next http.Handler) http.Handler {
		return protection.Handler(next)
	}, nil
}

func isLoopbackHost(host string) bool {
	if hostname, _, err := net.SplitHostPort(host); err == nil {
		host = hostname
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
