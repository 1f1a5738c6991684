package http

import (
	"bytes"
	"context"
	"fmt"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"io"
	"net/http"
	"net/url"
	"time"
)

// NewHttpClientTransport creates a client transport posting uploads over HTTP
func NewHttpClientTransport() transport.IUploadClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	serverURL *url.URL
	client    *http.Client
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IUploadClientTransport)
// --------------------------------------------------------------------------

func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	parsedURL, err := url.Parse(config.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", config.Endpoint, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", config.Endpoint)
	}

	// Client.Timeout of 0 means no timeout, which is the transport default
	client := &http.Client{
		Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 1,
			IdleConnTimeout:     90 * time.Second,
			// the body is already compressed, never let the transport touch it
			DisableCompression: true,
		},
		// a redirect would replay the body, report it as a status instead
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	t.client = client
	t.serverURL = parsedURL

	return nil
}

func (t *httpClientTransport) Send(ctx context.Context, req *common.UploadRequest) (*common.UploadResponse, error) {
	// Check if the transport is initialized
	if t.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, t.serverURL.String(), bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for name, value := range req.Header {
		httpRequest.Header.Set(name, value)
	}

	start := time.Now()
	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	Logger.Debugf("POST %s => %d took %s", t.serverURL.Redacted(), httpResponse.StatusCode, time.Since(start))

	// Check if the response status code is a success
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, &transport.StatusError{
			StatusCode: httpResponse.StatusCode,
			Status:     httpResponse.Status,
			Body:       string(body),
		}
	}

	return &common.UploadResponse{
		StatusCode: httpResponse.StatusCode,
		Body:       body,
	}, nil
}

func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	t.client = nil
	t.serverURL = nil

	return nil
}
