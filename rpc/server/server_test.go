package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/rpc/client"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
	httpTransport "github.com/ValentinKolb/plbench/rpc/transport/http"
)

// startReceiver runs the receiver behind an httptest server and returns its upload URL
func startReceiver(t *testing.T, config common.ServerConfig) (*UploadServer, string) {
	t.Helper()
	st := httpTransport.NewHttpServerTransport()
	s := NewUploadServer(config, st, measure.NewCollector())
	s.Init()

	srv := httptest.NewServer(st.Handler(config))
	t.Cleanup(srv.Close)
	return s, srv.URL
}

func newClient(t *testing.T, endpoint string, checksum bool) *client.UploadClient {
	t.Helper()
	c, err := client.NewUploadClient(
		common.ClientConfig{Endpoint: endpoint, Checksum: checksum},
		httpTransport.NewHttpClientTransport(),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func compress(t *testing.T, name string, data []byte) (codec.ICodec, []byte) {
	t.Helper()
	c, err := codec.Get(name)
	if err != nil {
		t.Fatalf("failed to get codec %s: %v", name, err)
	}
	out, err := c.Compress(data)
	if err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	return c, out
}

// TestReceiverAcknowledgesEveryCodec tests the full send path for each registered codec
func TestReceiverAcknowledgesEveryCodec(t *testing.T) {
	raw := []byte(`[{"a":1},{"a":1},{"a":1}]`)

	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			s, url := startReceiver(t, common.ServerConfig{})
			c := newClient(t, url+common.DefaultUploadPath, true)

			cd, body := compress(t, name, raw)
			ack, err := c.Upload(context.Background(), client.Upload{
				Body:            body,
				ContentEncoding: cd.ContentEncoding(),
				Raw:             raw,
			})
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}

			if !strings.HasPrefix(ack, "received 3 records") {
				t.Errorf("unexpected ack %q", ack)
			}

			totals := s.Totals()
			if totals.Uploads != 1 || totals.Records != 3 || totals.RawBytes != int64(len(raw)) {
				t.Errorf("unexpected totals %+v", totals)
			}
			if totals.CompressedBytes != int64(len(body)) {
				t.Errorf("expected %d compressed bytes, got %d", len(body), totals.CompressedBytes)
			}
		})
	}
}

// TestReceiverRejections tests the error responses of the receiver
func TestReceiverRejections(t *testing.T) {
	raw := []byte(`[{}, {}]`)
	_, deflated := compress(t, codec.NameDeflate, raw)
	_, notArray := compress(t, codec.NameDeflate, []byte(`{"a":1}`))

	tests := []struct {
		name   string
		req    *common.UploadRequest
		status int
	}{
		{
			name:   "unknown encoding",
			req:    common.NewUploadRequest(deflated, "compress", "", nil),
			status: http.StatusUnsupportedMediaType,
		},
		{
			name:   "corrupt body",
			req:    common.NewUploadRequest([]byte("not deflate at all"), "deflate", "", nil),
			status: http.StatusBadRequest,
		},
		{
			name:   "checksum mismatch",
			req:    common.NewUploadRequest(deflated, "deflate", "", []byte(`[{}]`)),
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "not an array",
			req:    common.NewUploadRequest(notArray, "deflate", "", nil),
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, url := startReceiver(t, common.ServerConfig{})

			ct := httpTransport.NewHttpClientTransport()
			if err := ct.Connect(common.ClientConfig{Endpoint: url + common.DefaultUploadPath}); err != nil {
				t.Fatalf("Connect failed: %v", err)
			}
			defer ct.Close()

			_, err := ct.Send(context.Background(), tt.req)
			var statusErr *transport.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d (%s)", tt.status, statusErr.StatusCode, statusErr.Body)
			}

			if totals := s.Totals(); totals.Rejected != 1 || totals.Uploads != 0 {
				t.Errorf("unexpected totals %+v", totals)
			}
		})
	}
}

// TestReceiverPlainUpload tests that uploads without the compression marker are read as is
func TestReceiverPlainUpload(t *testing.T) {
	s := NewUploadServer(common.ServerConfig{}, httpTransport.NewHttpServerTransport(), nil)

	resp := s.HandleUpload(&common.UploadRequest{
		Header: map[string]string{common.HeaderContentType: "application/json"},
		Body:   []byte(`[1,2,3,4]`),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if want := "received 4 records (9 bytes compressed, 9 bytes raw)"; string(resp.Body) != want {
		t.Errorf("expected %q, got %q", want, resp.Body)
	}
}

// TestReceiverBodyLimit tests the limit on the decompressed size
func TestReceiverBodyLimit(t *testing.T) {
	s := NewUploadServer(common.ServerConfig{MaxBodyMB: 1}, httpTransport.NewHttpServerTransport(), nil)

	raw := []byte("[" + strings.Repeat(`{},`, 1<<19) + "{}]")
	_, body := compress(t, codec.NameDeflate, raw)

	resp := s.HandleUpload(common.NewUploadRequest(body, "deflate", "", nil))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", resp.StatusCode)
	}

	// uncompressed uploads are limited as well
	resp = s.HandleUpload(&common.UploadRequest{Header: map[string]string{}, Body: raw})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for a plain upload, got %d", resp.StatusCode)
	}
}

// TestReceiverStopsInflatingAtLimit tests that a small body inflating far past
// the limit is rejected without decoding all of it
func TestReceiverStopsInflatingAtLimit(t *testing.T) {
	const inflated = 64 << 20

	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			cd, body := compress(t, name, make([]byte, inflated))
			s := NewUploadServer(common.ServerConfig{MaxBodyMB: 1}, httpTransport.NewHttpServerTransport(), nil)

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)

			resp := s.HandleUpload(common.NewUploadRequest(body, cd.ContentEncoding(), "", nil))

			runtime.ReadMemStats(&after)

			if resp.StatusCode != http.StatusRequestEntityTooLarge {
				t.Fatalf("expected 413, got %d: %s", resp.StatusCode, resp.Body)
			}
			if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 16<<20 {
				t.Errorf("expected decoding to stop near the 1 MB limit, %d MB were allocated", allocated>>20)
			}
		})
	}
}

// TestReceiverMetrics tests that the collector is served on /metrics
func TestReceiverMetrics(t *testing.T) {
	_, url := startReceiver(t, common.ServerConfig{})
	c := newClient(t, url+common.DefaultUploadPath, false)

	raw := []byte(`[{}]`)
	_, body := compress(t, codec.NameDeflate, raw)
	if _, err := c.Upload(context.Background(), client.Upload{Body: body, ContentEncoding: "deflate"}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	resp, err := http.Get(url + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	if !strings.Contains(string(text), `plbench_received_uploads_total{encoding="deflate",status="200"} 1`) {
		t.Errorf("expected upload counter in metrics, got:\n%s", text)
	}
}
