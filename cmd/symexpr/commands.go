package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/config"
	"github.com/njchilds90/symexpr/internal/logging"
	"github.com/njchilds90/symexpr/internal/metrics"
	"github.com/njchilds90/symexpr/internal/worksheet"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	paramsJSON string
	outFormat  string

	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:          "symexpr",
		Short:        "Evaluate, differentiate and rewrite symbolic expressions",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			logger, err = logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return err
		},
	}

	toolCmd = &cobra.Command{
		Use:   "tool NAME",
		Short: "Run a single tool call and print the response as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runTool,
	}

	runCmd = &cobra.Command{
		Use:   "run FILE",
		Short: "Run every request of a YAML worksheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runWorksheet,
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the tool schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), symexpr.ToolSpec())
			return err
		},
	}
)

// errToolFailed marks a response that carried an error.
var errToolFailed = errors.New("tool call failed")

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(toolCmd)
	toolCmd.Flags().StringVarP(&paramsJSON, "params", "p", "{}", "Tool parameters as a JSON object")

	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&outFormat, "output", "o", "yaml", "Output format: yaml or json")

	rootCmd.AddCommand(schemaCmd)
}

func runTool(cmd *cobra.Command, args []string) error {
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		return fmt.Errorf("--params: %w", err)
	}
	req := symexpr.ToolRequest{Tool: args[0], Params: params}
	resp := symexpr.HandleToolCall(req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if resp.Error != "" {
		logger.Debug("tool call failed", "tool", req.Tool, "error", resp.Error)
		return fmt.Errorf("%w: %s", errToolFailed, resp.Error)
	}
	return nil
}

func runWorksheet(cmd *cobra.Command, args []string) error {
	ws, err := worksheet.Load(args[0])
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	results, err := worksheet.Run(cmd.Context(), ws, logger,
		worksheet.WithConcurrency(cfg.WorksheetConcurrency),
		worksheet.WithMetrics(metrics.New(reg)),
	)
	if err != nil {
		return err
	}
	counts, err := metrics.CallCounts(reg)
	if err != nil {
		return err
	}
	for _, c := range counts {
		logger.Info("tool calls", "tool", c.Tool, "scalar", c.Scalar, "result", c.Result, "count", c.Count)
	}
	if err := writeResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if n := worksheet.Failed(results); n > 0 {
		return fmt.Errorf("%w: %d of %d requests", errToolFailed, n, len(results))
	}
	return nil
}

func writeResults(w io.Writer, results []worksheet.Result) error {
	switch outFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", outFormat)
}

