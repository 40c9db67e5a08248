// Command delimhuff drives the delimhuff codec from the shell: it trains a
// tree from a calibration sample, persists it, and encodes or decodes
// payloads against a persisted tree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wordcode/delimhuff"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "row":
		err = runRow(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		Logger.Error().Err(err).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: delimhuff <train|encode|decode|row> [flags]")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	sample := fs.String("sample", "", "calibration sample file")
	out := fs.String("tree", "tree.ion", "output tree file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := os.ReadFile(*sample)
	if err != nil {
		return fmt.Errorf("reading sample: %w", err)
	}

	tree := delimhuff.Build(delimhuff.Count(data))
	wire, err := tree.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshaling tree: %w", err)
	}
	if err := os.WriteFile(*out, wire, 0644); err != nil {
		return fmt.Errorf("writing tree: %w", err)
	}

	Logger.Info().Str("sample", *sample).Str("tree", *out).Int("bytes", len(wire)).Msg("trained tree")
	return nil
}

func loadTree(path string) (*delimhuff.Tree, error) {
	wire, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	tree := &delimhuff.Tree{}
	if err := tree.UnmarshalBinary(wire); err != nil {
		return nil, fmt.Errorf("unmarshaling tree: %w", err)
	}
	return tree, nil
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	treePath := fs.String("tree", "tree.ion", "tree file")
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tree, err := loadTree(*treePath)
	if err != nil {
		return err
	}
	engine := delimhuff.SpawnEngine(tree)

	src, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	encoded := engine.EncodeAndFlush(src, nil)
	if err := os.WriteFile(*out, encoded, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	Logger.Info().Int("in_bytes", len(src)).Int("out_bytes", len(encoded)).Msg("encoded")
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	treePath := fs.String("tree", "tree.ion", "tree file")
	in := fs.String("in", "", "input file")
	out := fs.String("out", "", "output file")
	checked := fs.Bool("checked", false, "use the bounds-checked decoder")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tree, err := loadTree(*treePath)
	if err != nil {
		return err
	}
	engine := delimhuff.SpawnEngine(tree)

	src, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var decoded []byte
	if *checked {
		_, decoded, err = engine.DecodeIntoChecked(src, 0, len(src)*8, nil)
		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
	} else {
		_, decoded = engine.DecodeInto(src, 0, nil)
	}

	if err := os.WriteFile(*out, decoded, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	Logger.Info().Int("in_bytes", len(src)).Int("out_bytes", len(decoded)).Msg("decoded")
	return nil
}

func runRow(args []string) error {
	fs := flag.NewFlagSet("row", flag.ExitOnError)
	treePath := fs.String("tree", "tree.ion", "tree file")
	configPath := fs.String("config", "row.json", "row config file")
	mode := fs.String("mode", "encode", "encode or decode")
	in := fs.String("in", "", "input file (field separated by NUL bytes for encode)")
	out := fs.String("out", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadRowConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading row config: %w", err)
	}

	tree, err := loadTree(*treePath)
	if err != nil {
		return err
	}
	engines := make([]*delimhuff.Engine, cfg.Fields)
	for i := range engines {
		engines[i] = delimhuff.SpawnEngine(tree)
	}
	row := delimhuff.SpawnRowEngine(engines)

	src, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	switch *mode {
	case "encode":
		fields := splitFields(src, cfg.Fields)
		encoded := row.EncodeInto(fields, nil)
		if err := os.WriteFile(*out, encoded, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		Logger.Info().Int("fields", cfg.Fields).Int("out_bytes", len(encoded)).Msg("row encoded")
	case "decode":
		decoded := row.DecodeInto(src, make([][]byte, cfg.Fields))
		if err := os.WriteFile(*out, joinFields(decoded), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		Logger.Info().Int("fields", cfg.Fields).Msg("row decoded")
	default:
		return fmt.Errorf("unknown row mode %q", *mode)
	}
	return nil
}

// splitFields divides src into n fields at NUL bytes; a short src leaves
// the trailing fields empty.
func splitFields(src []byte, n int) [][]byte {
	fields := make([][]byte, n)
	start := 0
	field := 0
	for i, b := range src {
		if b == 0 && field < n-1 {
			fields[field] = src[start:i]
			start = i + 1
			field++
		}
	}
	if field < n {
		fields[field] = src[start:]
	}
	return fields
}

func joinFields(fields [][]byte) []byte {
	var out []byte
	for i, f := range fields {
		if i > 0 {
			out = append(out, 0)
		}
		out = append(out, f...)
	}
	return out
}
