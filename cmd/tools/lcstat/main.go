// lcstat prints the derived statistics of raw lightcurve files and optionally
// runs the flare, eclipse, and period scans over them.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/fluxlc/fluxlc/internal/analytics/eclipse"
	"github.com/fluxlc/fluxlc/internal/analytics/flare"
	"github.com/fluxlc/fluxlc/internal/analytics/spectral"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
	"github.com/fluxlc/fluxlc/internal/loader"
)

func main() {
	// Command line flags
	binSeconds := flag.Float64("bin-seconds", lightcurve.DefaultBinSeconds, "Instrument sampling interval in seconds")
	scan := flag.Bool("scan", false, "Run flare, eclipse, and period scans")
	flareBinSize := flag.Int("flare-bin", 10, "Samples per flare regression bin")
	flareSigma := flag.Float64("flare-sigma", 2.0, "Flare outlier threshold in standard deviations")
	eclipseBinSize := flag.Int("eclipse-bin", 300, "Samples per eclipse regression bin")
	eclipseMaxSlope := flag.Float64("eclipse-slope", 1.0, "Slope ceiling for eclipse bins")
	periodScale := flag.Float64("period-scale", spectral.DefaultPeriodScale, "Dominant-period unit conversion")

	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Error: at least one lightcurve file is required")
	}

	for _, path := range flag.Args() {
		lc, err := loader.Load(path, *binSeconds)
		if err != nil {
			log.Fatalf("Error reading %s: %v\n", path, err)
		}

		fmt.Printf("%s\n", path)
		fmt.Printf("  obs id:       %s\n", lc.ObsID)
		fmt.Printf("  coordinates:  %s\n", lc.SourceCoords)
		fmt.Printf("  samples:      %d\n", lc.Len())
		fmt.Printf("  total time:   %.3f ks\n", lc.TotalTime)
		fmt.Printf("  total counts: %.0f\n", lc.TotalCount)
		fmt.Printf("  rate:         %.3f c/ks (%.5f c/s)\n", lc.RatePerKS, lc.RatePerS)

		if !*scan {
			continue
		}

		flareCfg := flare.DefaultConfig()
		flareCfg.BinSize = *flareBinSize
		flareCfg.Sigma = *flareSigma
		events, err := flare.Clusters(lc, flareCfg)
		if err != nil {
			log.Fatalf("Error scanning %s for flares: %v\n", path, err)
		}
		fmt.Printf("  flare events: %d", len(events))
		for _, offset := range events {
			fmt.Printf(" @%.0fs", offset)
		}
		fmt.Println()

		eclipseCfg := eclipse.Config{BinSize: *eclipseBinSize, MaxSlope: *eclipseMaxSlope}
		clusters, err := eclipse.Detect(lc, eclipseCfg)
		if err != nil {
			log.Fatalf("Error scanning %s for eclipses: %v\n", path, err)
		}
		fmt.Printf("  eclipses:     %d", len(clusters))
		for _, cluster := range clusters {
			fmt.Printf(" @%.0fs(%d bins)", cluster[0], len(cluster))
		}
		fmt.Println()

		period, err := spectral.DominantPeriod(lc.RawPhotonCounts, *periodScale)
		if err != nil {
			log.Fatalf("Error estimating period of %s: %v\n", path, err)
		}
		fmt.Printf("  dominant period: %.3f\n", period)
	}
}
