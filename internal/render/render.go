// Package render draws a controller.UIState as plain text.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valpere/nebo/internal/controller"
	"github.com/valpere/nebo/pkg/weather"
)

const spinner = "⏳ Loading..."

// Write renders state to w. Missing report fields render blank.
func Write(w io.Writer, state controller.UIState) error {
	_, err := io.WriteString(w, Text(state))
	return err
}

// Text returns the rendering of state.
func Text(state controller.UIState) string {
	if state.Loading {
		return spinner + "\n"
	}

	var b strings.Builder

	if state.SearchVisible {
		b.WriteString("🔍 Search city\n")
		for i, loc := range state.Candidates {
			fmt.Fprintf(&b, "  %d. 📍 %s\n", i+1, loc.Label())
		}
		b.WriteString("\n")
	}

	if state.Report == nil {
		b.WriteString("No forecast loaded\n")
		return b.String()
	}

	writeReport(&b, state.Report)
	return b.String()
}

func writeReport(b *strings.Builder, report *weather.Report) {
	current := report.Current

	fmt.Fprintf(b, "%s, %s\n", report.Location.Name, report.Location.Country)
	fmt.Fprintf(b, "🌡️ %s  %s\n", temperature(current), current.Condition.Text)
	fmt.Fprintf(b, "💨 %s km   💧 %d%%   🌅 %s\n", formatNumber(current.WindKph), current.Humidity, sunrise(report))

	days := report.Forecast.ForecastDay
	b.WriteString("\n📅 Daily Forecast\n")
	for i, day := range days {
		// today and tomorrow are not listed
		if i <= 1 {
			continue
		}
		fmt.Fprintf(b, "  %-10s %d°\n", weekday(day.Date), weather.FahrenheitToCelsius(day.Day.AvgTempF))
	}
}

// temperature is blank when the current block was absent from the response.
func temperature(current weather.Current) string {
	if current == (weather.Current{}) {
		return ""
	}
	return fmt.Sprintf("%d°", weather.FahrenheitToCelsius(current.TempF))
}

func sunrise(report *weather.Report) string {
	if len(report.Forecast.ForecastDay) == 0 {
		return ""
	}
	return report.Forecast.ForecastDay[0].Astro.Sunrise
}

func weekday(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

func formatNumber(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}
