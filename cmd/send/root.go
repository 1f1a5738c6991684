package send

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/plbench/cmd/util"
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/lib/payload"
	"github.com/ValentinKolb/plbench/lib/pipeline"
	"github.com/ValentinKolb/plbench/rpc/client"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
)

var (
	Logger = logger.GetLogger("cmd")

	session      *pipeline.Session
	runner       *pipeline.Runner
	collector    *measure.Collector
	uploadClient *client.UploadClient

	SendCmd = &cobra.Command{
		Use:   "send",
		Short: "Compress a synthesized payload and upload it",
		Long: `Replicate the template --count times into a JSON array, compress it with the
selected codec and POST the compressed bytes to --endpoint.

The sizes before and after compression and the compression time are printed
even if the upload fails.`,
		Example: `  plbench send --count 100000
  plbench send --template '{"a":1}' --count 5000 --endpoint http://localhost:8080/upload-compressed
  echo '{}' | plbench send --template-file - --json`,
		PreRunE:      setupSend,
		RunE:         run,
		PostRunE:     cleanup,
		SilenceUsage: true,
	}
)

func init() {
	util.SetupPayloadFlags(SendCmd)
	util.SetupUploadFlags(SendCmd)

	key := "count"
	SendCmd.Flags().Int(key, payload.DefaultCount, util.WrapString(fmt.Sprintf("How many copies of the template the payload contains (one of %v)", payload.AllowedCounts())))

	key = "json"
	SendCmd.Flags().Bool(key, false, util.WrapString("Print the outcome as JSON"))

	key = "metrics-file"
	SendCmd.Flags().String(key, "", util.WrapString("Optional path to write the collected metrics to (Prometheus text format)"))

	key = "fail-on-transfer-error"
	SendCmd.Flags().Bool(key, false, util.WrapString("Exit with an error if the upload fails (the measurements are printed anyway)"))
}

// setupSend builds the session and the runner from flags and environment
func setupSend(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := util.InitLoggers(); err != nil {
		return err
	}

	template, err := util.GetTemplate(cmd.InOrStdin())
	if err != nil {
		return err
	}

	session, err = pipeline.NewSessionWith(template, viper.GetInt("count"))
	if err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	c, err := util.GetCodec()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	config := util.GetClientConfig()
	Logger.Debugf(config.String())

	uploadClient, err = client.NewUploadClient(*config, t)
	if err != nil {
		return err
	}

	collector = measure.NewCollector()
	runner = pipeline.NewRunner(s, c, uploadClient, collector)
	return nil
}

// sendReport is the --json rendering of an outcome
type sendReport struct {
	*pipeline.Outcome
	TransferError string `json:"transfer_error,omitempty"`
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcome, err := runner.Run(ctx, session)
	if err != nil {
		return err
	}

	if path := viper.GetString("metrics-file"); path != "" {
		if err := writeMetrics(path); err != nil {
			Logger.Errorf("Failed to write metrics: %v", err)
		}
	}

	out := cmd.OutOrStdout()
	if viper.GetBool("json") {
		report := sendReport{Outcome: outcome}
		if outcome.Transfer.Err != nil {
			report.TransferError = outcome.Transfer.Err.Error()
		}
		if err := measure.WriteJSON(out, report); err != nil {
			return err
		}
	} else {
		metrics := outcome.Metrics
		if err := measure.WriteText(out, &metrics); err != nil {
			return err
		}

		if outcome.Transfer.OK() {
			fmt.Fprintf(out, "Server response: %s\n", outcome.Transfer.Ack)
		} else if outcome.Transfer.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error sending data: %v\n", outcome.Transfer.Err)
		}
	}

	if outcome.Transfer.Err != nil && viper.GetBool("fail-on-transfer-error") {
		return outcome.Transfer.Err
	}
	return nil
}

func cleanup(_ *cobra.Command, _ []string) error {
	if uploadClient != nil {
		return uploadClient.Close()
	}
	return nil
}

func writeMetrics(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer file.Close()

	collector.WritePrometheus(file)
	return nil
}
