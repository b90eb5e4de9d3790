// Command ipheat renders a heat map of IPv4 address space. It reads
// whitespace or comma separated "address [value]" lines, paints them
// onto a Hilbert curve, and writes the result as an image.
//
// Usage:
//
//	ipheat [flags] output.png
//
// The input defaults to stdin; -i accepts a local path (.gz, .zst and
// .lz4 files are decompressed transparently) or an s3://bucket/key URL.
// The output filename extension selects the encoder; s3:// URLs upload
// the image instead of writing a local file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ties/ipheat"
	s3store "github.com/ties/ipheat/blobstore/s3"
	"github.com/ties/ipheat/dataset"
	"github.com/ties/ipheat/gradient"
	"github.com/ties/ipheat/scale"
)

var (
	input = flag.String("i", "-", "Input dataset; a file path, s3://bucket/key, or - for stdin.")

	bitsPerPixel = flag.Int("z", 8, "Bits of address space per pixel; even, 8 to 32. 8 gives a 4096x4096 image.")
	valueMode    = flag.String("value-mode", "scaled", "How values are written: scaled, raw, or categorical.")
	accumulate   = flag.Bool("C", false, "Add repeated values for the same pixel instead of overwriting.")
	shards       = flag.Int("j", 1, "Parallel ingestion shards; values above 1 require -C.")

	curveName   = flag.String("curve", "linear", "Colour scale curve: linear or logarithmic.")
	colourScale = flag.String("colour-scale", "magma", "Colour scheme: magma, cividis, or accessible.")
	minValue    = flag.Float64("min-value", 0, "Lower bound of the colour domain; values at or below it are transparent.")
	maxValue    = flag.Float64("max-value", 0, "Upper bound of the colour domain.")

	// Deprecated spellings kept for old scripts.
	logMin = flag.Float64("A", 0, "Deprecated; same as --min-value with --curve logarithmic.")
	logMax = flag.Float64("B", 0, "Deprecated; same as --max-value with --curve logarithmic.")

	verbose  = flag.Bool("v", false, "Log ingestion and rendering progress.")
	debugLog = flag.Bool("vv", false, "Verbose debug logging.")
)

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ipheat:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one output filename, got %d arguments", flag.NArg())
	}
	output := flag.Arg(0)

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts, err := buildOptions(set)
	if err != nil {
		return err
	}

	hm, err := ipheat.New(*bitsPerPixel, opts...)
	if err != nil {
		return err
	}

	in, err := openInput(ctx, *input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if err := hm.Ingest(ctx, in); err != nil {
		return err
	}

	if bucket, key, ok := splitS3URL(output); ok {
		store, err := s3store.NewStoreFromEnv(ctx, bucket, "")
		if err != nil {
			return fmt.Errorf("open s3 output: %w", err)
		}
		return hm.SaveTo(ctx, store, key)
	}
	return hm.Save(output)
}

func buildOptions(set map[string]bool) ([]ipheat.Option, error) {
	mode, err := ipheat.ParseValueMode(*valueMode)
	if err != nil {
		return nil, err
	}

	kind, err := scale.ParseKind(*curveName)
	if err != nil {
		return nil, err
	}

	grad, err := gradient.ByName(*colourScale)
	if err != nil {
		return nil, err
	}

	if set["A"] || set["B"] {
		fmt.Fprintln(os.Stderr, "ipheat: -A and -B are deprecated; use --min-value/--max-value with --curve logarithmic")
		kind = scale.Logarithmic
		if set["A"] && !set["min-value"] {
			*minValue, set["min-value"] = *logMin, true
		}
		if set["B"] && !set["max-value"] {
			*maxValue, set["max-value"] = *logMax, true
		}
	}

	opts := []ipheat.Option{
		ipheat.WithValueMode(mode),
		ipheat.WithAccumulate(*accumulate),
		ipheat.WithDomain(kind),
		ipheat.WithGradient(grad),
		ipheat.WithShards(*shards),
		ipheat.WithLogger(ipheat.NewTextLogger(logLevel())),
	}
	if set["min-value"] {
		opts = append(opts, ipheat.WithMinValue(*minValue))
	}
	if set["max-value"] {
		opts = append(opts, ipheat.WithMaxValue(*maxValue))
	}
	return opts, nil
}

func logLevel() slog.Level {
	switch {
	case *debugLog:
		return slog.LevelDebug
	case *verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	if bucket, key, ok := splitS3URL(path); ok {
		store, err := s3store.NewStoreFromEnv(ctx, bucket, "")
		if err != nil {
			return nil, err
		}
		return dataset.OpenStore(ctx, store, key)
	}
	return dataset.Open(path)
}

func splitS3URL(s string) (bucket, key string, ok bool) {
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
