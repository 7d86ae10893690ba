package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/radar"
)

const previewBarWidth = 30

// demoMetrics matches the skill dimensions shown on the analytics
// dashboard, used when the config defines no metric set.
var demoMetrics = []radar.Metric{
	{Label: "Frontend", Value: 90},
	{Label: "Backend", Value: 85},
	{Label: "DevOps", Value: 40},
	{Label: "Database", Value: 75},
	{Label: "Architecture", Value: 70},
	{Label: "Cloud", Value: 50},
}

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Render a radar chart of named metrics as SVG or a terminal preview",
	Run: func(cmd *cobra.Command, _ []string) {
		logger := newLogger()

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		metrics, opts := radarInput(config)

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			svg, err := radar.RenderSVG(metrics, opts)
			if err != nil {
				logger.Fatal("rendering chart", zap.Error(err))
			}

			if err := os.WriteFile(output, []byte(svg), 0o644); err != nil {
				logger.Fatal("writing chart", zap.Error(err))
			}

			logger.Info("chart written", zap.String("filename", output), zap.Int("metrics", len(metrics)))
			return
		}

		fmt.Print(renderPreview(metrics, opts.MaxValue))
	},
}

func init() {
	rootCmd.AddCommand(radarCmd)

	radarCmd.Flags().StringP("output", "o", "", "write an SVG chart to this file instead of printing a preview")
}

// radarInput assembles the metric set and geometry from the config,
// falling back to the demo dataset.
func radarInput(config *Config) ([]radar.Metric, radar.Options) {
	opts := radar.Options{
		MaxValue:    radar.DefaultMaxValue,
		Radius:      80,
		Center:      radar.Point{X: 120, Y: 120},
		LabelOffset: 20,
	}

	metrics := demoMetrics

	if config.Radar != nil {
		if config.Radar.MaxValue > 0 {
			opts.MaxValue = config.Radar.MaxValue
		}

		if len(config.Radar.Metrics) > 0 {
			metrics = make([]radar.Metric, 0, len(config.Radar.Metrics))
			for _, m := range config.Radar.Metrics {
				metrics = append(metrics, radar.Metric{Label: m.Label, Value: m.Value})
			}
		}
	}

	return metrics, opts
}

// renderPreview draws one horizontal bar per metric, the terminal
// counterpart of the SVG polygon.
func renderPreview(metrics []radar.Metric, maxValue float64) string {
	labelStyle := lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("245"))
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	for _, m := range metrics {
		value := m.Value
		if value < 0 {
			value = 0
		}
		if value > maxValue {
			value = maxValue
		}

		filled := int(value / maxValue * previewBarWidth)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", previewBarWidth-filled)

		b.WriteString(labelStyle.Render(m.Label))
		b.WriteString(" ")
		b.WriteString(barStyle.Render(bar))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.0f", m.Value)))
		b.WriteString("\n")
	}

	return b.String()
}
