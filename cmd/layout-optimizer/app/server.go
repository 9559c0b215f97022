/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	logsapi "k8s.io/component-base/logs/api/v1"
	"k8s.io/klog/v2"

	"github.com/keyboard-ga/layout-optimizer/apis/config/v1alpha1"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/algorithms"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/metrics"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/util"
)

// NewOptimizerCommand creates the layout-optimizer command.
func NewOptimizerCommand() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "layout-optimizer [flags] <corpus-file>",
		Short: "Search a keyboard layout that minimizes finger travel over a word list",
		Long: `layout-optimizer evolves assignments of the 26 letters to fixed key positions
with a genetic algorithm and reports the layout with the lowest mean distance
between the keys of consecutive letters of the corpus words.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: expected one corpus file argument, got %d", framework.ErrConfig, len(args))
			}
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logsapi.ValidateAndApply(opts.Logs, nil); err != nil {
				return fmt.Errorf("%w: %w", framework.ErrConfig, err)
			}
			cfg, err := opts.Config(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return Run(ctx, opts, cfg, args[0], cmd.OutOrStdout())
		},
	}
	opts.AddFlags(cmd.Flags())

	return cmd
}

// Run reads the corpus, evolves a layout and writes the results to out and to
// the optional report, chart and metrics destinations of opts.
func Run(ctx context.Context, opts *Options, cfg *v1alpha1.LayoutOptimizerArgs, corpusPath string, out io.Writer) error {
	logger := klog.FromContext(ctx)

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}

	optimizer, err := layout.New(ctx, cfg,
		layout.WithMetrics(m),
		layout.WithProgress(func(s framework.GenerationStats) {
			fmt.Fprintf(out, "generation %d, best cost: %.4f\n", s.Generation, s.BestCost)
		}),
	)
	if err != nil {
		return err
	}

	words, err := optimizer.ReadCorpus(ctx, corpusPath)
	if err != nil {
		return err
	}

	outcome, runErr := optimizer.Optimize(ctx, corpusPath, words)
	if outcome == nil {
		return runErr
	}

	fmt.Fprintln(out, "Best layout found:")
	if err := util.FormatRows(out, outcome.Catalog, outcome.Best.Layout); err != nil {
		return err
	}
	fmt.Fprintf(out, "best cost: %.4f\n", outcome.Best.Cost)

	if opts.Output != "" {
		data, err := v1alpha1.EncodeReport(outcome.Report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.V(2).Info("report written", "path", opts.Output)
	}

	if opts.PlotDir != "" {
		if len(outcome.Result.History) > 0 {
			path, err := util.PlotConvergence(outcome.Result.History, algorithms.Name, opts.PlotDir)
			if err != nil {
				return fmt.Errorf("plotting convergence: %w", err)
			}
			logger.V(2).Info("chart written", "path", path)
		}
		title := fmt.Sprintf("best layout, cost %.4f", outcome.Best.Cost)
		path, err := util.PlotKeyboard(outcome.Catalog, outcome.Best.Layout, title, opts.PlotDir)
		if err != nil {
			return fmt.Errorf("plotting keyboard: %w", err)
		}
		logger.V(2).Info("chart written", "path", path)
	}

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	return runErr
}
