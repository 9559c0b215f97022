package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

const (
	ConvergenceFile = "convergence.html"
	KeyboardFile    = "keyboard.html"
)

// PlotConvergence creates a line chart of the best, mean and worst cost of every
// generation and writes it to dir/ConvergenceFile.
func PlotConvergence(history []framework.GenerationStats, algorithmName, dir string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no generations recorded for %s", algorithmName)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s convergence", algorithmName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "mean bigram distance",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	gens := make([]int, len(history))
	best := make([]opts.LineData, len(history))
	mean := make([]opts.LineData, len(history))
	worst := make([]opts.LineData, len(history))
	for i, s := range history {
		gens[i] = s.Generation
		best[i] = opts.LineData{Value: s.BestCost}
		mean[i] = opts.LineData{Value: s.MeanCost}
		worst[i] = opts.LineData{Value: s.WorstCost}
	}

	line.SetXAxis(gens).
		AddSeries("best", best).
		AddSeries("mean", mean).
		AddSeries("worst", worst).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return render(line, filepath.Join(dir, ConvergenceFile))
}

// PlotKeyboard creates a scatter plot of every letter at its key position and
// writes it to dir/KeyboardFile.
func PlotKeyboard(catalog *framework.Catalog, l framework.Layout, title, dir string) (string, error) {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "x",
			Type: "value",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "y",
			Type: "value",
		}))

	keys := make([]opts.ScatterData, 0, len(l))
	for i, slot := range l {
		p := catalog.Position(slot)
		keys = append(keys, opts.ScatterData{
			Name:       string(framework.Letters[i]),
			Value:      []float64{p.X, p.Y},
			Symbol:     "roundRect",
			SymbolSize: 30,
		})
	}

	scatter.AddSeries("keys", keys).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			}),
		)

	return render(scatter, filepath.Join(dir, KeyboardFile))
}

type renderer interface {
	Render(w io.Writer) error
}

// render writes chart to path. A file that could not be written completely is removed.
func render(chart renderer, path string) (_ string, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := chart.Render(f); err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}
	return path, nil
}
