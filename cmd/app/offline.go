package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/urfave/cli/v3"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/tree"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadA2L(path string) (*a2l.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, warnings, err := a2l.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range warnings {
		slog.Warn("parse warning", slog.String("file", path), slog.Int("line", w.Line), slog.String("message", w.Message))
	}
	return f, nil
}

func readSymbols(path, match string, types []string) ([]symbols.Symbol, error) {
	var re *regexp.Regexp
	if match != "" {
		var err error
		if re, err = regexp.Compile(match); err != nil {
			return nil, fmt.Errorf("invalid --match: %w", err)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	syms, err := symbols.ReadELF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return symbols.Filter(syms, re, types...), nil
}

func firstArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", errors.New("exactly one FILE argument is required")
	}
	return cmd.Args().First(), nil
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "match", Usage: "Regular expression on symbol names"},
		&cli.StringSliceFlag{Name: "type", Usage: "Symbol types to keep (e.g. OBJECT), repeatable"},
	}
}

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the projected tree of an A2L file as JSON",
		ArgsUsage: "FILE",
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := firstArg(cmd)
			if err != nil {
				return err
			}
			f, err := loadA2L(path)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, tree.Build(f))
		},
	}
}

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "Print the symbol table of an ELF file as JSON",
		ArgsUsage: "FILE",
		Flags:     filterFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			path, err := firstArg(cmd)
			if err != nil {
				return err
			}
			syms, err := readSymbols(path, cmd.String("match"), cmd.StringSlice("type"))
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, syms)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Append one measurement per ELF symbol to an A2L file",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "a2l", Usage: "Input A2L file", Required: true},
			&cli.StringFlag{Name: "elf", Usage: "ELF file to read symbols from", Required: true},
			&cli.StringFlag{Name: "module", Usage: "Target module (default: first module)"},
			&cli.StringFlag{Name: "out", Usage: "Output A2L file", Required: true},
		}, filterFlags()...),
		Action: func(_ context.Context, cmd *cli.Command) error {
			f, err := loadA2L(cmd.String("a2l"))
			if err != nil {
				return err
			}
			syms, err := readSymbols(cmd.String("elf"), cmd.String("match"), cmd.StringSlice("type"))
			if err != nil {
				return err
			}
			var module *string
			if cmd.IsSet("module") {
				m := cmd.String("module")
				module = &m
			}
			n, err := symbols.Import(f, module, syms)
			if err != nil {
				return err
			}
			out := cmd.String("out")
			if err := os.WriteFile(out, []byte(f.Write()), 0o644); err != nil {
				return err
			}
			slog.Info("symbols imported", slog.Int("count", n), slog.String("out", out))
			return nil
		},
	}
}
