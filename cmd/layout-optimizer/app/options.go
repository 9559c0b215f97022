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
	"fmt"

	"github.com/spf13/pflag"
	logsapi "k8s.io/component-base/logs/api/v1"
	"k8s.io/utils/ptr"

	"github.com/keyboard-ga/layout-optimizer/apis/config/v1alpha1"
	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

// Options has all the params needed to run the layout optimizer.
type Options struct {
	// ConfigFile is an optional LayoutOptimizerArgs file. Flags set on the
	// command line take precedence over it.
	ConfigFile string

	// Output is where the LayoutReport is written, if set.
	Output string
	// PlotDir receives the HTML charts, if set.
	PlotDir string
	// MetricsFile receives the Prometheus text exposition, if set.
	MetricsFile string

	PopulationSize  int32
	Generations     int32
	MutationRate    float64
	ElitismFraction float64
	TournamentSize  int32
	ReportInterval  int32
	Seed            int64
	MaxWords        int32
	CacheFitness    bool

	Logs *logsapi.LoggingConfiguration
}

// NewOptions returns options carrying the v1alpha1 defaults.
func NewOptions() *Options {
	return &Options{
		PopulationSize:  v1alpha1.DefaultPopulationSize,
		Generations:     v1alpha1.DefaultGenerations,
		MutationRate:    v1alpha1.DefaultMutationRate,
		ElitismFraction: v1alpha1.DefaultElitismFraction,
		TournamentSize:  v1alpha1.DefaultTournamentSize,
		ReportInterval:  v1alpha1.DefaultReportInterval,
		Seed:            v1alpha1.DefaultSeed,
		MaxWords:        v1alpha1.DefaultMaxWords,
		CacheFitness:    v1alpha1.DefaultCacheFitness,
		Logs:            logsapi.NewLoggingConfiguration(),
	}
}

// AddFlags adds flags for the optimizer to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to a LayoutOptimizerArgs YAML file.")
	fs.StringVar(&o.Output, "output", o.Output, "Write the LayoutReport YAML to this file.")
	fs.StringVar(&o.PlotDir, "plot-dir", o.PlotDir, "Render convergence and keyboard HTML charts into this directory.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write run metrics in Prometheus text format to this file.")

	fs.Int32Var(&o.PopulationSize, "population-size", o.PopulationSize, "Number of layouts per generation.")
	fs.Int32Var(&o.Generations, "generations", o.Generations, "Number of generations to evolve.")
	fs.Float64Var(&o.MutationRate, "mutation-rate", o.MutationRate, "Probability that a child gets one random key swap.")
	fs.Float64Var(&o.ElitismFraction, "elitism", o.ElitismFraction, "Fraction of the best layouts copied unchanged into the next generation.")
	fs.Int32Var(&o.TournamentSize, "tournament-size", o.TournamentSize, "Individuals drawn per tournament.")
	fs.Int32Var(&o.ReportInterval, "report-interval", o.ReportInterval, "Generations between progress lines.")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "Random seed; 0 seeds from the clock.")
	fs.Int32Var(&o.MaxWords, "max-words", o.MaxWords, "Maximum number of corpus words read.")
	fs.BoolVar(&o.CacheFitness, "cache-fitness", o.CacheFitness, "Memoize the cost of every distinct layout.")

	logsapi.AddFlags(o.Logs, fs)
}

// Config builds the run arguments: the config file if any, overridden by
// every flag explicitly set on fs.
func (o *Options) Config(fs *pflag.FlagSet) (*v1alpha1.LayoutOptimizerArgs, error) {
	args := &v1alpha1.LayoutOptimizerArgs{}
	if o.ConfigFile != "" {
		loaded, err := v1alpha1.LoadArgs(o.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("%w: loading config file: %w", framework.ErrConfig, err)
		}
		args = loaded
	}

	if fs.Changed("population-size") || args.PopulationSize == nil {
		args.PopulationSize = ptr.To(o.PopulationSize)
	}
	if fs.Changed("generations") || args.Generations == nil {
		args.Generations = ptr.To(o.Generations)
	}
	if fs.Changed("mutation-rate") || args.MutationRate == nil {
		args.MutationRate = ptr.To(o.MutationRate)
	}
	if fs.Changed("elitism") || args.ElitismFraction == nil {
		args.ElitismFraction = ptr.To(o.ElitismFraction)
	}
	if fs.Changed("tournament-size") || args.TournamentSize == nil {
		args.TournamentSize = ptr.To(o.TournamentSize)
	}
	if fs.Changed("report-interval") || args.ReportInterval == nil {
		args.ReportInterval = ptr.To(o.ReportInterval)
	}
	if fs.Changed("seed") || args.Seed == nil {
		args.Seed = ptr.To(o.Seed)
	}
	if fs.Changed("max-words") || args.MaxWords == nil {
		args.MaxWords = ptr.To(o.MaxWords)
	}
	if fs.Changed("cache-fitness") || args.CacheFitness == nil {
		args.CacheFitness = ptr.To(o.CacheFitness)
	}

	return args, nil
}
