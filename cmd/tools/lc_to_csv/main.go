// lc_to_csv converts a raw lightcurve file into a plottable CSV series.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fluxlc/fluxlc/internal/downsampling"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
	"github.com/fluxlc/fluxlc/internal/loader"
	"github.com/fluxlc/fluxlc/internal/render"
)

func main() {
	// Command line flags
	input := flag.String("input", "", "Raw lightcurve file (text or FITS)")
	output := flag.String("output", "", "Output CSV path (default: <obsid>_<kind>.csv)")
	kind := flag.String("kind", render.KindCumulative, "Series kind (cumulative, binned_rate, running_average, periodogram)")
	binning := flag.Float64("binning", 500, "Rate binning interval in seconds")
	window := flag.Int("window", 2, "Running average window in intervals per side")
	binSeconds := flag.Float64("bin-seconds", lightcurve.DefaultBinSeconds, "Instrument sampling interval in seconds")
	mode := flag.String("downsample", string(downsampling.ModeNone), "Downsampling mode (none, auto, lttb, minmax, avg, m4)")
	threshold := flag.Int("threshold", downsampling.DefaultAutoThreshold, "Downsampling target point count")

	flag.Parse()

	// Validate required parameters
	if *input == "" {
		log.Fatal("Error: -input parameter is required")
	}
	if !downsampling.IsValid(*mode) {
		log.Fatalf("Error: unknown downsample mode '%s'\n", *mode)
	}

	lc, err := loader.Load(*input, *binSeconds)
	if err != nil {
		log.Fatalf("Error reading %s: %v\n", *input, err)
	}

	var series *render.Series
	switch *kind {
	case render.KindCumulative:
		series = render.Cumulative(lc)
	case render.KindBinnedRate:
		series, err = render.BinnedRate(lc, *binning)
	case render.KindRunningAverage:
		series, err = render.RunningAverage(lc, *binning, *window)
	case render.KindPeriodogram:
		series, err = render.Periodogram(lc)
	default:
		log.Fatalf("Error: unknown series kind '%s'\n", *kind)
	}
	if err != nil {
		log.Fatalf("Error rendering %s series: %v\n", *kind, err)
	}

	series, err = render.Downsample(series, downsampling.Mode(*mode), *threshold)
	if err != nil {
		log.Fatalf("Error downsampling: %v\n", err)
	}

	// Determine output file name
	outputFile := *output
	if outputFile == "" {
		outputFile = fmt.Sprintf("%s_%s.csv", lc.ObsID, strings.ReplaceAll(series.Kind, " ", "_"))
	}
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Error creating output directory: %v\n", err)
		}
	}

	f, err := os.Create(outputFile)
	if err != nil {
		log.Fatalf("Error creating %s: %v\n", outputFile, err)
	}
	defer f.Close()

	if err := render.WriteCSV(f, series); err != nil {
		log.Fatalf("Error writing CSV: %v\n", err)
	}

	fmt.Printf("Wrote %d points to %s\n", series.Len(), outputFile)
}
