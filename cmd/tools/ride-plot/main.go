// ride-plot renders a recorded ride from the ride database as an HTML
// line chart (power, speed, cadence, fatigue) using go-echarts.
//
// Usage:
//
//	ride-plot -db ride_data.db [-ride <ride-id>] [-out ride.html]
//
// Without -ride the most recent ride is plotted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/veloforge/ridesim/internal/ridedb"
	"github.com/veloforge/ridesim/internal/units"
)

var (
	dbFile = flag.String("db", "ride_data.db", "Path to the ride database")
	rideID = flag.String("ride", "", "Ride ID to plot (most recent if empty)")
	out    = flag.String("out", "ride.html", "Output HTML file")
)

func main() {
	flag.Parse()

	db, err := ridedb.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	id := *rideID
	if id == "" {
		rides, err := db.Rides()
		if err != nil {
			log.Fatalf("failed to list rides: %v", err)
		}
		if len(rides) == 0 {
			log.Fatal("no rides recorded")
		}
		id = rides[0]
	}

	samples, err := db.Samples(id)
	if err != nil {
		log.Fatalf("failed to load samples: %v", err)
	}
	if len(samples) == 0 {
		log.Fatalf("ride %s has no samples", id)
	}

	xs := make([]string, 0, len(samples))
	powerSeries := make([]opts.LineData, 0, len(samples))
	speedSeries := make([]opts.LineData, 0, len(samples))
	cadenceSeries := make([]opts.LineData, 0, len(samples))
	fatigueSeries := make([]opts.LineData, 0, len(samples))

	for _, s := range samples {
		xs = append(xs, fmt.Sprintf("%.0fs", s.ElapsedSeconds))
		powerSeries = append(powerSeries, opts.LineData{Value: s.State.PowerWatts})
		speedSeries = append(speedSeries, opts.LineData{Value: units.ConvertSpeed(s.State.SpeedMps, units.KPH)})
		cadenceSeries = append(cadenceSeries, opts.LineData{Value: s.State.CadenceRpm})
		// Scale fatigue to percent so it shares an axis with the others.
		fatigueSeries = append(fatigueSeries, opts.LineData{Value: s.State.Fatigue * 100})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "ridesim telemetry",
			Subtitle: fmt.Sprintf("ride %s", id),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{}),
	)

	line.SetXAxis(xs).
		AddSeries("power (W)", powerSeries).
		AddSeries("speed (km/h)", speedSeries).
		AddSeries("cadence (rpm)", cadenceSeries).
		AddSeries("fatigue (%)", fatigueSeries)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		log.Fatalf("failed to render chart: %v", err)
	}
	log.Printf("wrote %s (%d samples)", *out, len(samples))
}
