package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jonathan-fouchard/lap-tracker/lap"
)

func main() {
	inPath := flag.String("in", "", "input detection CSV (columns t,label,x,y[,z][,I])")
	outPath := flag.String("out", "", "output CSV for the relabeled table (default stdout)")
	maxDisp := flag.Float64("max-disp", 0.1, "maximum per-unit-time displacement gating linking")
	windowGap := flag.Float64("window-gap", 10, "maximum frame gap bridgeable by gap closing")
	sigma := flag.Float64("sigma", 1.0, "predictor noise-scale parameter")
	ndims := flag.Int("ndims", 3, "coordinate dimensionality (2 or 3)")
	predict := flag.Bool("predict", false, "enable motion prediction during linking")
	gapClose := flag.Bool("gap-close", true, "run the gap-closing pass after linking")
	minLength := flag.Int("min-length", 0, "drop tracks with fewer detections than this (0 = keep all)")
	plotPath := flag.String("plot", "", "write an HTML track chart to this path")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("missing required flag -in")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	in, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	table, err := lap.ReadTableCSV(in)
	in.Close()
	if err != nil {
		log.Fatalf("failed to read detections: %v", err)
	}

	cfg := lap.DefaultConfig()
	cfg.MaxDisp = *maxDisp
	cfg.WindowGap = *windowGap
	cfg.Sigma = *sigma
	cfg.NDims = *ndims
	cfg.Predict = *predict

	tracker, err := lap.New(table, cfg, lap.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to create tracker: %v", err)
	}
	if err := tracker.Track(); err != nil {
		log.Fatalf("linking failed: %v", err)
	}
	if *gapClose {
		if _, err := tracker.CloseMergeSplit(); err != nil {
			log.Fatalf("gap closing failed: %v", err)
		}
	}
	if *minLength > 0 {
		tracker.RemoveShorts(*minLength)
	}

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer out.Close()
	}
	if err := table.WriteCSV(out); err != nil {
		log.Fatalf("failed to write relabeled table: %v", err)
	}

	if *plotPath != "" {
		chart, err := os.Create(*plotPath)
		if err != nil {
			log.Fatalf("failed to create chart file: %v", err)
		}
		defer chart.Close()
		if err := tracker.RenderTracks(chart); err != nil {
			log.Fatalf("failed to render chart: %v", err)
		}
	}
}
