// Command datquery opens a container built by cmd/datbuild and performs
// contains, find, or prefix lookups against it from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bpowers/dat"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "datquery:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("datquery", flag.ExitOnError)
	typeFlag := fs.String("type", "empty", "type of record values: empty, int, double, string")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: datquery [-type TYPE] DB contains|find|prefix KEY")
	}
	dbPath, op, key := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	switch *typeFlag {
	case "empty":
		return query[dat.Empty](dbPath, dat.EmptyCodec{}, op, key, func(dat.Empty) string { return "" })
	case "string":
		return query[string](dbPath, dat.StringCodec{}, op, key, func(v string) string { return v })
	case "int":
		return query[int64](dbPath, dat.Int64Codec{}, op, key, func(v int64) string { return fmt.Sprintf("%d", v) })
	case "double":
		return query[float64](dbPath, dat.Float64Codec{}, op, key, func(v float64) string { return fmt.Sprintf("%g", v) })
	default:
		return fmt.Errorf("unknown record type %q", *typeFlag)
	}
}

func query[V any](dbPath string, codec dat.ValueCodec[V], op, key string, format func(V) string) error {
	tbl, err := dat.Open[V](dbPath, codec)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer tbl.Close()

	switch op {
	case "contains":
		fmt.Println(tbl.Contains([]byte(key)))
		return nil
	case "find":
		v, ok, err := tbl.FindErr([]byte(key))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("not found")
			return nil
		}
		if s := format(v); s != "" {
			fmt.Println(s)
		} else {
			fmt.Println("found")
		}
		return nil
	case "prefix":
		cur := tbl.PrefixCursor([]byte(key))
		found := false
		for {
			v, ok, err := cur.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			found = true
			if s := format(v); s != "" {
				fmt.Println(s)
			} else {
				fmt.Println("match")
			}
		}
		if !found {
			fmt.Println("no matches")
		}
		return nil
	default:
		return fmt.Errorf("unknown operation %q: want contains, find, or prefix", op)
	}
}
