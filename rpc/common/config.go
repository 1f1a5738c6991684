package common

import (
	"fmt"
	"strings"
)

const (
	// DefaultEndpoint is the upload target used when none is configured
	DefaultEndpoint = "https://payload-compression-node.onrender.com/upload-compressed"
	// DefaultUploadPath is the path the reference receiver accepts uploads on
	DefaultUploadPath = "/upload-compressed"
)

// --------------------------------------------------------------------------
// Upload client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all parameters for sending payloads to a receiver
type ClientConfig struct {
	// Endpoint is the full URL the compressed payload is posted to
	Endpoint string
	// TimeoutSecond limits the whole request; 0 keeps the transport default (no timeout)
	TimeoutSecond int
	// Checksum adds an X-Content-Checksum header for the uncompressed bytes
	Checksum bool
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Upload Client")
	addField("Endpoint", c.Endpoint)
	if c.TimeoutSecond > 0 {
		addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	} else {
		addField("Timeout", "transport default")
	}
	addField("Checksum", fmt.Sprintf("%t", c.Checksum))

	return sb.String()
}

// --------------------------------------------------------------------------
// Receiver configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all parameters for the reference receiver
type ServerConfig struct {
	// Endpoint is the listen address (e.g. 0.0.0.0:8080)
	Endpoint string
	// UploadPath is the path uploads are accepted on
	UploadPath string
	// MaxBodyMB limits the accepted request body (compressed and decompressed)
	MaxBodyMB int
	// TimeoutSecond is the read timeout for a single request
	TimeoutSecond int64

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Receiver")
	addField("Endpoint", c.Endpoint)
	addField("Upload Path", c.UploadPath)
	addField("Max Body", fmt.Sprintf("%d MB", c.MaxBodyMB))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
