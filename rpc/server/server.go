package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"net/http"
)

var Logger = logger.GetLogger("server")

// identityEncoding is reported for uploads without the compression marker
const identityEncoding = "identity"

// Totals are the receiver's running counters
type Totals struct {
	Uploads         int64 `json:"uploads"`
	Rejected        int64 `json:"rejected"`
	Records         int64 `json:"records"`
	CompressedBytes int64 `json:"compressed_bytes"`
	RawBytes        int64 `json:"raw_bytes"`
}

// UploadServer is the reference receiver: it decompresses uploads according
// to their Content-Encoding, verifies the optional checksum and acknowledges
// the number of records received.
type UploadServer struct {
	config    common.ServerConfig
	transport transport.IUploadServerTransport
	collector *measure.Collector

	uploads         *xsync.Counter
	rejected        *xsync.Counter
	records         *xsync.Counter
	compressedBytes *xsync.Counter
	rawBytes        *xsync.Counter
}

// NewUploadServer creates a new receiver
// It takes a config, transport and an optional collector as parameters
//
// Usage:
//
//	s := server.NewUploadServer(
//		*config,
//		http.NewHttpServerTransport(),
//		measure.NewCollector(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewUploadServer(
	config common.ServerConfig,
	transport transport.IUploadServerTransport,
	collector *measure.Collector,
) *UploadServer {
	if collector == nil {
		collector = measure.NewCollector()
	}

	Logger.Infof("Created upload receiver")
	Logger.Infof(config.String())

	return &UploadServer{
		config:          config,
		transport:       transport,
		collector:       collector,
		uploads:         xsync.NewCounter(),
		rejected:        xsync.NewCounter(),
		records:         xsync.NewCounter(),
		compressedBytes: xsync.NewCounter(),
		rawBytes:        xsync.NewCounter(),
	}
}

// Init registers the upload handler and, if the transport supports it, the
// GET /metrics endpoint. Serve calls Init.
func (s *UploadServer) Init() {
	s.transport.RegisterHandler(s.HandleUpload)

	if mux, ok := s.transport.(interface {
		Handle(pattern string, handler http.Handler)
	}); ok {
		mux.Handle("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; version=0.0.4")
			s.collector.WritePrometheus(w)
		}))
	}
}

// Serve initializes the receiver and blocks in the transport's Listen
func (s *UploadServer) Serve() error {
	s.Init()
	return s.transport.Listen(s.config)
}

// Totals returns a snapshot of the running counters
func (s *UploadServer) Totals() Totals {
	return Totals{
		Uploads:         s.uploads.Value(),
		Rejected:        s.rejected.Value(),
		Records:         s.records.Value(),
		CompressedBytes: s.compressedBytes.Value(),
		RawBytes:        s.rawBytes.Value(),
	}
}

// HandleUpload processes a single upload (implements transport.ServerHandleFunc)
func (s *UploadServer) HandleUpload(req *common.UploadRequest) *common.UploadResponse {
	requestID := req.Header[common.HeaderRequestID]
	encoding := identityEncoding

	// limit on the decoded size in bytes (0 = unlimited)
	limit := 0
	if s.config.MaxBodyMB > 0 {
		limit = s.config.MaxBodyMB << 20
	}

	// Decode the body
	raw := req.Body
	if common.IsCompressed(req.Header[common.HeaderCompressed]) {
		encoding = req.Header[common.HeaderContentEncoding]

		c, ok := codec.ForContentEncoding(encoding)
		if !ok {
			return s.reject(encoding, req, http.StatusUnsupportedMediaType, fmt.Sprintf("unsupported content encoding %q", encoding))
		}

		// stops inflating as soon as the limit is passed
		var err error
		raw, err = c.DecompressLimit(req.Body, limit)
		if errors.Is(err, codec.ErrLimitExceeded) {
			return s.reject(encoding, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("decompressed body exceeds %d MB", s.config.MaxBodyMB))
		}
		if err != nil {
			return s.reject(encoding, req, http.StatusBadRequest, fmt.Sprintf("failed to decompress body: %v", err))
		}
	} else if limit > 0 && len(raw) > limit {
		return s.reject(encoding, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d MB", s.config.MaxBodyMB))
	}

	// Check integrity (optional)
	if checksum, ok := req.Header[common.HeaderChecksum]; ok {
		if err := common.VerifyChecksum(checksum, raw); err != nil {
			return s.reject(encoding, req, http.StatusUnprocessableEntity, err.Error())
		}
	}

	// Count the records
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return s.reject(encoding, req, http.StatusBadRequest, fmt.Sprintf("payload is not a JSON array: %v", err))
	}

	s.uploads.Inc()
	s.records.Add(int64(len(rows)))
	s.compressedBytes.Add(int64(len(req.Body)))
	s.rawBytes.Add(int64(len(raw)))
	s.collector.ObserveUpload(encoding, len(req.Body), len(raw), http.StatusOK)

	Logger.Infof("Upload %s: %d records, %d bytes %s, %d bytes raw",
		requestID, len(rows), len(req.Body), encoding, len(raw))

	return &common.UploadResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(fmt.Sprintf("received %d records (%d bytes compressed, %d bytes raw)", len(rows), len(req.Body), len(raw))),
	}
}

// reject counts a failed upload and builds the error response
func (s *UploadServer) reject(encoding string, req *common.UploadRequest, status int, msg string) *common.UploadResponse {
	s.rejected.Inc()
	s.collector.ObserveUpload(encoding, len(req.Body), 0, status)

	Logger.Warningf("Rejected upload %s (%d): %s", req.Header[common.HeaderRequestID], status, msg)

	return &common.UploadResponse{
		StatusCode: status,
		Body:       []byte(msg),
	}
}
