package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
)

func connect(t *testing.T, endpoint string) transport.IUploadClientTransport {
	t.Helper()
	c := NewHttpClientTransport()
	if err := c.Connect(common.ClientConfig{Endpoint: endpoint}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// TestClientSendsHeadersAndBody tests that the request arrives exactly as built
func TestClientSendsHeadersAndBody(t *testing.T) {
	body := []byte{0x78, 0x9c, 0x01, 0x02, 0x03}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("Content-Encoding"); got != "deflate" {
			t.Errorf("Content-Encoding = %q", got)
		}
		if got := r.Header.Get("X-Content-Compressed"); got != "true" {
			t.Errorf("X-Content-Compressed = %q", got)
		}
		data, _ := io.ReadAll(r.Body)
		if !bytes.Equal(data, body) {
			t.Errorf("Body = %v, want %v", data, body)
		}
		_, _ = w.Write([]byte("stored"))
	}))
	defer srv.Close()

	c := connect(t, srv.URL+"/upload-compressed")
	resp, err := c.Send(context.Background(), common.NewUploadRequest(body, "deflate", "id-1", nil))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "stored" || resp.StatusCode != http.StatusOK {
		t.Errorf("Unexpected response %d %q", resp.StatusCode, resp.Body)
	}
}

// TestClientDoesNotRetry tests that a failing receiver is contacted exactly once
func TestClientDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := connect(t, srv.URL)
	_, err := c.Send(context.Background(), common.NewUploadRequest([]byte("x"), "deflate", "", nil))

	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.Body != "disk full\n" {
		t.Errorf("Unexpected status error %+v", statusErr)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one request, got %d", calls)
	}
}

// TestClientDoesNotFollowRedirects tests that a redirect is reported instead of replaying the upload
func TestClientDoesNotFollowRedirects(t *testing.T) {
	replayed := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/moved", http.StatusTemporaryRedirect)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		replayed++
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := connect(t, srv.URL+"/upload")
	_, err := c.Send(context.Background(), common.NewUploadRequest([]byte("x"), "deflate", "", nil))

	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("Expected status 307, got %d", statusErr.StatusCode)
	}
	if replayed != 0 {
		t.Errorf("Expected the redirect target not to be contacted, got %d requests", replayed)
	}
}

// TestClientUnreachable tests the network error path
func TestClientUnreachable(t *testing.T) {
	// grab a free port and close it again
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	c := connect(t, "http://"+addr+"/upload-compressed")
	if _, err := c.Send(context.Background(), common.NewUploadRequest([]byte("x"), "deflate", "", nil)); err == nil {
		t.Error("Send to a closed port should fail")
	}
}

// TestClientConnectValidation tests endpoint validation and use before Connect
func TestClientConnectValidation(t *testing.T) {
	c := NewHttpClientTransport()
	for _, endpoint := range []string{"ftp://example.com", "localhost:8080", "://broken"} {
		if err := c.Connect(common.ClientConfig{Endpoint: endpoint}); err == nil {
			t.Errorf("Connect(%q) should fail", endpoint)
		}
	}

	if _, err := NewHttpClientTransport().Send(context.Background(), &common.UploadRequest{}); err == nil {
		t.Error("Send before Connect should fail")
	}
}

// TestServerTransport tests that the receiver passes body and headers to the handler
func TestServerTransport(t *testing.T) {
	st := NewHttpServerTransport()
	st.RegisterHandler(func(req *common.UploadRequest) *common.UploadResponse {
		if req.Header[common.HeaderContentEncoding] != "deflate" {
			return &common.UploadResponse{StatusCode: http.StatusUnsupportedMediaType, Body: []byte("bad encoding")}
		}
		return &common.UploadResponse{StatusCode: http.StatusOK, Body: append([]byte("got "), req.Body...)}
	})

	srv := httptest.NewServer(st.Handler(common.ServerConfig{MaxBodyMB: 1}))
	defer srv.Close()

	c := connect(t, srv.URL+common.DefaultUploadPath)
	resp, err := c.Send(context.Background(), common.NewUploadRequest([]byte("abc"), "deflate", "", nil))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "got abc" {
		t.Errorf("Unexpected response %q", resp.Body)
	}

	_, err = c.Send(context.Background(), common.NewUploadRequest([]byte("abc"), "br", "", nil))
	var statusErr *transport.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("Expected 415, got %v", err)
	}

	// only POST is routed
	getResp, err := http.Get(srv.URL + common.DefaultUploadPath)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_ = getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", getResp.StatusCode)
	}
}

// TestServerHandlerTwice tests that building the handler again does not register the route twice
func TestServerHandlerTwice(t *testing.T) {
	st := NewHttpServerTransport()
	st.RegisterHandler(func(req *common.UploadRequest) *common.UploadResponse {
		return &common.UploadResponse{StatusCode: http.StatusOK, Body: []byte("ok")}
	})

	config := common.ServerConfig{MaxBodyMB: 1}
	_ = st.Handler(config)
	handler := st.Handler(config)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	c := connect(t, srv.URL+common.DefaultUploadPath)
	resp, err := c.Send(context.Background(), common.NewUploadRequest([]byte("abc"), "deflate", "", nil))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("Unexpected response %q", resp.Body)
	}
}
