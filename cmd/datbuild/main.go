// Command datbuild builds a double-array trie container from a sorted,
// TAB-delimited record file: each line is a key, optionally followed by a
// TAB and a value, ordered by dictionary order of keys.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/bpowers/dat"
	"github.com/bpowers/dat/internal/doublearray"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "datbuild:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("datbuild", flag.ExitOnError)
	typeFlag := fs.String("type", "empty", "type of record values: empty, int, double, string")
	compact := fs.Bool("compact", false, "pack double-array elements into 4 bytes instead of 5; only safe for small tries")
	dbPath := fs.String("db", "", "path to write the built container to; if empty, the trie is built but discarded")
	checksum := fs.Bool("checksum", true, "emit the optional CKSM integrity chunk")
	verbose := fs.Bool("v", false, "log build progress")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: datbuild [OPTIONS] INPUT")
	}

	opts := []dat.BuilderOption{
		dat.WithChecksum(*checksum),
	}
	if *verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts,
			dat.WithBuilderLogger(logger),
			dat.WithProgressCallback(func(done, total int) {
				if done == total || done%max(total/10, 1) == 0 {
					logger.Info("datbuild: progress", "leaves", done, "records", total)
				}
			}),
		)
	}
	if *compact {
		opts = append(opts, dat.WithElementWidth(doublearray.Width4))
	}

	switch *typeFlag {
	case "empty":
		return build[dat.Empty](fs.Arg(0), *dbPath, dat.EmptyCodec{}, func(string) (dat.Empty, error) {
			return dat.Empty{}, nil
		}, opts)
	case "string":
		return build[string](fs.Arg(0), *dbPath, dat.StringCodec{}, func(s string) (string, error) {
			return s, nil
		}, opts)
	case "int":
		return build[int64](fs.Arg(0), *dbPath, dat.Int64Codec{}, func(s string) (int64, error) {
			return strconv.ParseInt(s, 10, 64)
		}, opts)
	case "double":
		return build[float64](fs.Arg(0), *dbPath, dat.Float64Codec{}, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		}, opts)
	default:
		return fmt.Errorf("unknown record type %q", *typeFlag)
	}
}

func build[V any](inputPath, dbPath string, codec dat.ValueCodec[V], parse func(string) (V, error), opts []dat.BuilderOption) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	b := dat.NewBuilder[V](codec, opts...)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		key, valueText, _ := bytes.Cut(line, []byte{'\t'})

		v, err := parse(string(valueText))
		if err != nil {
			return fmt.Errorf("line %d: parsing value: %w", lineNo, err)
		}
		if err := b.Put(key, v); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	if err := b.Build(); err != nil {
		return fmt.Errorf("building trie: %w", err)
	}

	if dbPath == "" {
		return nil
	}

	out, err := os.Create(dbPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dbPath, err)
	}
	defer out.Close()

	if err := b.Write(out); err != nil {
		return fmt.Errorf("writing %s: %w", dbPath, err)
	}
	return nil
}
