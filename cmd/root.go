package cmd

import (
	"fmt"
	"github.com/ValentinKolb/plbench/cmd/bench"
	"github.com/ValentinKolb/plbench/cmd/send"
	"github.com/ValentinKolb/plbench/cmd/serve"
	"github.com/ValentinKolb/plbench/cmd/util"
	"github.com/ValentinKolb/plbench/lib/payload"
	"github.com/ValentinKolb/plbench/rpc/codec"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "plbench",
		Short: "payload compression benchmark",
		Long: fmt.Sprintf(`plbench (v%s)

Synthesizes large JSON payloads from a template, compresses them, reports
size before and after compression and the compression time, and uploads
the compressed bytes to a receiver.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of plbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plbench v%s\n", Version)
		},
	}
	sizesCmd = &cobra.Command{
		Use:   "sizes",
		Short: "List the allowed payload sizes (record counts)",
		Run: func(cmd *cobra.Command, args []string) {
			for _, count := range payload.AllowedCounts() {
				marker := ""
				if count == payload.DefaultCount {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d%s\n", count, marker)
			}
		},
	}
	codecsCmd = &cobra.Command{
		Use:   "codecs",
		Short: "List the available codecs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range codec.Names() {
				c, err := codec.Get(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == codec.NameDefault {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s Content-Encoding: %s%s\n", name, c.ContentEncoding(), marker)
			}
			return nil
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(send.SendCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(sizesCmd)
	RootCmd.AddCommand(codecsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json)"))
	key = "codec"
	RootCmd.PersistentFlags().String(key, codec.NameDefault, util.WrapString("codec to compress with (see plbench codecs)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
