// Package cmd implements the command-line interface of plbench. It provides
// the commands to measure and upload compressed payloads and to run the
// reference receiver.
//
// The package is organized into several subpackages:
//
//   - send: Measure one payload and upload it (the main use case)
//   - bench: Measure every allowed payload size repeatedly and print statistics
//   - serve: Start the reference receiver
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set via environment variables with the PLBENCH_ prefix
// (e.g. PLBENCH_COUNT=100000), including from .env and .env.local files.
//
// See plbench -help for a list of all commands.
package cmd
