package util

import (
	"fmt"
	"github.com/ValentinKolb/plbench/lib/payload"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/serializer"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"github.com/ValentinKolb/plbench/rpc/transport/http"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables (e.g. PLBENCH_COUNT)
	EnvPrefix = "plbench"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Flags
// --------------------------------------------------------------------------

// SetupPayloadFlags adds the template flags to a command
func SetupPayloadFlags(cmd *cobra.Command) {
	key := "template"
	cmd.Flags().String(key, payload.DefaultTemplate, WrapString("JSON value that is replicated to build the payload"))

	key = "template-file"
	cmd.Flags().String(key, "", WrapString("Read the template from a file instead (use - for stdin). Takes precedence over --template"))
}

// SetupUploadFlags adds the upload client flags to a command
func SetupUploadFlags(cmd *cobra.Command) {
	key := "endpoint"
	cmd.Flags().String(key, common.DefaultEndpoint, WrapString("URL the compressed payload is posted to"))

	key = "timeout"
	cmd.Flags().Int(key, 0, WrapString("Timeout of the upload in seconds (0 keeps the transport default, i.e. no timeout)"))

	key = "checksum"
	cmd.Flags().Bool(key, false, WrapString("Send an X-Content-Checksum header (xxh64 of the uncompressed payload)"))

	key = "transport"
	cmd.Flags().String(key, "http", WrapString("Transport to use (http)"))
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// InitConfig loads .env files and initializes viper from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

var initLoggersOnce sync.Once

// InitLoggers installs the plbench logger with the configured level (only the first call has an effect)
func InitLoggers() (err error) {
	initLoggersOnce.Do(func() {
		err = common.InitLoggers(viper.GetString("log-level"))
	})
	return err
}

// GetClientConfig reads the upload client configuration from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		Endpoint:      viper.GetString("endpoint"),
		TimeoutSecond: viper.GetInt("timeout"),
		Checksum:      viper.GetBool("checksum"),
	}
}

// GetTemplate returns the template text, read from --template-file if set
func GetTemplate(stdin io.Reader) (string, error) {
	path := viper.GetString("template-file")
	if path == "" {
		return viper.GetString("template"), nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}

// GetCodec creates the codec selected with --codec
func GetCodec() (codec.ICodec, error) {
	return codec.Get(viper.GetString("codec"))
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IPayloadSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetTransport creates transport based on configuration
func GetTransport() (transport.IUploadClientTransport, error) {
	switch viper.GetString("transport") {
	case "http":
		return http.NewHttpClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}
