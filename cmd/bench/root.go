package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/plbench/cmd/util"
	"github.com/ValentinKolb/plbench/lib/measure"
	"github.com/ValentinKolb/plbench/lib/payload"
	"github.com/ValentinKolb/plbench/lib/pipeline"
	"github.com/ValentinKolb/plbench/rpc/client"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/ValentinKolb/plbench/rpc/serializer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"
)

var (
	benchTemplate   string
	benchRuns       = 3
	benchSkip       = make(map[int]bool)
	benchSend       = false
	benchSerializer serializer.IPayloadSerializer
	benchCodec      codec.ICodec
	benchClient     *client.UploadClient

	BenchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Measure the compression for every payload size",
		Long: `Run the measurement for every allowed count, --runs times each, and print
size and compression time statistics per count. Uploads are only made with --send.`,
		Example: `  plbench bench --runs 10 --skip 1000000
  plbench bench --codec zstd --csv results.csv`,
		PreRunE:      processBenchConfig,
		RunE:         run,
		SilenceUsage: true,
	}
)

func init() {
	util.SetupPayloadFlags(BenchCmd)
	util.SetupUploadFlags(BenchCmd)

	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Counts to skip (comma separated - e.g. 500000,1000000)"))
	key = "runs"
	BenchCmd.Flags().Int(key, 3, util.WrapString("How many times each count is measured"))
	key = "send"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Also upload every payload to --endpoint"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := util.InitLoggers(); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchRuns = viper.GetInt("runs")
	if benchRuns < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", benchRuns)
	}
	benchSend = viper.GetBool("send")

	benchSkip = make(map[int]bool)
	if skip := strings.TrimSpace(viper.GetString("skip")); skip != "" {
		for _, s := range strings.Split(skip, ",") {
			count, err := payload.ParseCount(s)
			if err != nil {
				return fmt.Errorf("invalid skip entry: %w", err)
			}
			benchSkip[count] = true
		}
	}

	var err error
	if benchTemplate, err = util.GetTemplate(cmd.InOrStdin()); err != nil {
		return err
	}
	if benchSerializer, err = util.GetSerializer(); err != nil {
		return err
	}
	if benchCodec, err = util.GetCodec(); err != nil {
		return err
	}

	if benchSend {
		t, err := util.GetTransport()
		if err != nil {
			return err
		}
		if benchClient, err = client.NewUploadClient(*util.GetClientConfig(), t); err != nil {
			return err
		}
	}

	return nil
}

// benchResult holds the measurements of all runs for one count
type benchResult struct {
	Count           int
	Skipped         bool
	Raw             measure.Raw
	Compress        measure.Summary
	TransfersOK     int
	TransfersFailed int
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Compression benchmark")

	// Print configuration
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  %-22s: %s\n", "Serializer", benchSerializer.Name())
	fmt.Fprintf(out, "  %-22s: %s\n", "Codec", benchCodec.Name())
	fmt.Fprintf(out, "  %-22s: %d\n", "Runs", benchRuns)
	if benchSend {
		config := util.GetClientConfig()
		fmt.Fprint(out, config.String())
	}
	fmt.Fprintln(out)

	var uploader pipeline.Uploader
	if benchClient != nil {
		uploader = benchClient
		defer benchClient.Close()
	}
	runner := pipeline.NewRunner(benchSerializer, benchCodec, uploader, nil)

	fmt.Fprintf(out, "%-10s%14s%14s%12s%14s%14s%14s\n", "count", "before", "after", "reduction", "mean", "p50", "p95")

	results := make([]benchResult, 0, len(payload.AllowedCounts()))
	for _, count := range payload.AllowedCounts() {
		result, err := benchCount(ctx, runner, count)
		if err != nil {
			return err
		}
		results = append(results, result)
		printResult(cmd, result)
	}

	// Save results to CSV if path is provided
	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("error writing CSV: %w", err)
		}
		fmt.Fprintf(out, "\nResults saved to %s\n", csvPath)
	}

	return nil
}

// benchCount measures one count benchRuns times
func benchCount(ctx context.Context, runner *pipeline.Runner, count int) (benchResult, error) {
	result := benchResult{Count: count}
	if benchSkip[count] {
		result.Skipped = true
		return result, nil
	}

	session, err := pipeline.NewSessionWith(benchTemplate, count)
	if err != nil {
		return result, err
	}

	sampler := measure.NewSampler(benchRuns)
	for i := 0; i < benchRuns; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, err := runner.Run(ctx, session)
		if err != nil {
			return result, err
		}

		result.Raw = outcome.Raw
		sampler.Observe(outcome.Raw.Elapsed)

		if outcome.Transfer.OK() {
			result.TransfersOK++
		} else if outcome.Transfer.Err != nil {
			result.TransfersFailed++
		}
	}

	result.Compress = sampler.Summary()
	return result, nil
}

func printResult(cmd *cobra.Command, r benchResult) {
	out := cmd.OutOrStdout()
	if r.Skipped {
		fmt.Fprintf(out, "%-10dskipped\n", r.Count)
		return
	}

	result := r.Raw.Result()
	fmt.Fprintf(out, "%-10d%11.2f MB%11.2f MB%11.1f%%%14s%14s%14s",
		r.Count,
		result.BeforeSizeMB,
		result.AfterSizeMB,
		r.Raw.Reduction(),
		seconds(r.Compress.Mean),
		seconds(r.Compress.P50),
		seconds(r.Compress.P95),
	)
	if benchSend {
		fmt.Fprintf(out, "   sent %d/%d", r.TransfersOK, r.TransfersOK+r.TransfersFailed)
	}
	fmt.Fprintln(out)
}

func seconds(s float64) string {
	return time.Duration(s * float64(time.Second)).Round(time.Microsecond).String()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []benchResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Count", "Skipped", "BeforeBytes", "AfterBytes", "BeforeMB", "AfterMB", "ReductionPercent",
		"Runs", "MeanSec", "MinSec", "MaxSec", "StdDevSec", "P50Sec", "P95Sec", "P99Sec",
		"TransfersOK", "TransfersFailed",
		"Serializer", "Codec", "Endpoint",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	endpoint := ""
	if benchSend {
		endpoint = viper.GetString("endpoint")
	}

	// Write results
	for _, r := range results {
		display := r.Raw.Result()
		f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

		row := []string{
			strconv.Itoa(r.Count),
			strconv.FormatBool(r.Skipped),
			strconv.Itoa(r.Raw.BeforeBytes),
			strconv.Itoa(r.Raw.AfterBytes),
			f(display.BeforeSizeMB),
			f(display.AfterSizeMB),
			fmt.Sprintf("%.2f", r.Raw.Reduction()),
			strconv.FormatInt(r.Compress.Count, 10),
			f(r.Compress.Mean),
			f(r.Compress.Min),
			f(r.Compress.Max),
			f(r.Compress.StdDeviation),
			f(r.Compress.P50),
			f(r.Compress.P95),
			f(r.Compress.P99),
			strconv.Itoa(r.TransfersOK),
			strconv.Itoa(r.TransfersFailed),
			benchSerializer.Name(),
			benchCodec.Name(),
			endpoint,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for count %d: %v", r.Count, err)
		}
	}

	return nil
}
