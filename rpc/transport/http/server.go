package http

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net/http"
	"sync"
	"time"
)

var Logger = logger.GetLogger("transport/http")

// NewHttpServerTransport creates a server transport receiving uploads over HTTP.
// Extra handlers (e.g. /metrics) can be mounted with Handle before Listen.
func NewHttpServerTransport() *HttpServerTransport {
	return &HttpServerTransport{
		mux: http.NewServeMux(),
	}
}

// HttpServerTransport implements transport.IUploadServerTransport
type HttpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig
	mux     *http.ServeMux

	// the upload route is registered on the first Handler call only
	registerOnce sync.Once
}

var _ transport.IUploadServerTransport = (*HttpServerTransport)(nil)

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IUploadServerTransport)
// --------------------------------------------------------------------------

func (t *HttpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *HttpServerTransport) Listen(config common.ServerConfig) error {
	Logger.Infof("Starting HTTP receiver on %s%s", config.Endpoint, uploadPath(config))

	srv := &http.Server{
		Addr:              config.Endpoint,
		Handler:           t.Handler(config),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(config.TimeoutSecond) * time.Second,
	}
	return srv.ListenAndServe()
}

// --------------------------------------------------------------------------
// Public Helper
// --------------------------------------------------------------------------

// Handle mounts an additional handler on the receiver's mux
func (t *HttpServerTransport) Handle(pattern string, handler http.Handler) {
	t.mux.Handle(pattern, handler)
}

// Handler builds the http.Handler for the given configuration (used by Listen and tests).
// The upload path and log level of the first call stay in effect, later calls
// only update the body limit.
func (t *HttpServerTransport) Handler(config common.ServerConfig) http.Handler {
	t.config = config

	t.registerOnce.Do(func() {
		// Register handler
		pattern := "POST " + uploadPath(config)
		if config.LogLevel == "debug" {
			t.mux.HandleFunc(pattern, loggerMiddleware(t.handleRequest))
		} else {
			t.mux.HandleFunc(pattern, t.handleRequest)
		}
	})
	return t.mux
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func uploadPath(config common.ServerConfig) string {
	if config.UploadPath == "" {
		return common.DefaultUploadPath
	}
	return config.UploadPath
}

// handleRequest reads the upload and writes the handler's response
func (t *HttpServerTransport) handleRequest(w http.ResponseWriter, r *http.Request) {
	// Check if a handler is registered
	if t.handler == nil {
		http.Error(w, "no handler registered", http.StatusServiceUnavailable)
		return
	}

	// Limit the body size (if configured)
	var body io.Reader = r.Body
	if t.config.MaxBodyMB > 0 {
		body = http.MaxBytesReader(w, r.Body, int64(t.config.MaxBodyMB)<<20)
	}

	// Read request body
	data, err := io.ReadAll(body)
	defer r.Body.Close()

	// Check if body could be read
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, fmt.Sprintf("body exceeds %d MB", t.config.MaxBodyMB), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	// Copy headers (canonical names, first value)
	header := make(map[string]string, len(r.Header))
	for name := range r.Header {
		header[name] = r.Header.Get(name)
	}

	// Send to the handler
	resp := t.handler(&common.UploadRequest{Header: header, Body: data})

	// Write response
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if _, err = w.Write(resp.Body); err != nil {
		Logger.Warningf("Failed to write response: %v", err)
	}
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		Logger.Debugf("%s %s (%s, %d bytes) => %d took %s",
			r.Method, r.URL.Path, r.Header.Get(common.HeaderContentEncoding), r.ContentLength, rw.statusCode, time.Since(start))
	}
}
