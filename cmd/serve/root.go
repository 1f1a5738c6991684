package serve

import (
	"fmt"
	"github.com/ValentinKolb/plbench/cmd/util"
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/rpc/common"
	"github.com/ValentinKolb/plbench/rpc/server"
	"github.com/ValentinKolb/plbench/rpc/transport"
	"github.com/ValentinKolb/plbench/rpc/transport/http"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve",
		Short: "Start the reference receiver",
		Long: `Start a receiver that accepts compressed uploads, decompresses them according to
their Content-Encoding and acknowledges the number of records. The configuration
can be set via command line flags or environment variables. The format of the
environment variables is PLBENCH_<flag> (e.g. PLBENCH_MAX_BODY_MB=512)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	key := "listen"
	ServeCmd.Flags().String(key, "0.0.0.0:8080", util.WrapString("The address on which the receiver will listen"))

	key = "upload-path"
	ServeCmd.Flags().String(key, common.DefaultUploadPath, util.WrapString("The path uploads are accepted on"))

	key = "max-body-mb"
	ServeCmd.Flags().Int(key, 256, util.WrapString("Maximum size of an upload in MB, compressed and decompressed (0 disables the limit)"))

	key = "timeout"
	ServeCmd.Flags().Int64(key, 60, util.WrapString("Read timeout of a single request in seconds"))

	key = "transport"
	ServeCmd.Flags().String(key, "http", util.WrapString("Transport to use (http)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := util.InitLoggers(); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("listen")
	serveCmdConfig.UploadPath = viper.GetString("upload-path")
	serveCmdConfig.MaxBodyMB = viper.GetInt("max-body-mb")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.MaxBodyMB < 0 {
		return fmt.Errorf("max-body-mb must not be negative")
	}

	return nil
}

// run starts the receiver
func run(_ *cobra.Command, _ []string) error {

	// Parse the transport
	var t transport.IUploadServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewUploadServer(
		*serveCmdConfig,
		t,
		measure.NewCollector(),
	)

	return serv.Serve()
}
