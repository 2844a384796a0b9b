package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"qarith"
	"qarith/codec"
	"qarith/internal/config"
)

const usage = `usage:
  qarith                         start the interactive viewer
  qarith add [flags] A B         add two non-negative integers
  qarith multiply [flags] A B    multiply two non-negative integers (alias: mul)

flags:
`

// runCLI evaluates one operation and prints the answer. It returns the
// process exit status.
func runCLI(args []string, cfg *config.Config, log zerolog.Logger, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 1
	}

	var op qarith.Op
	switch args[0] {
	case "add":
		op = qarith.OpAdd
	case "multiply", "mul":
		op = qarith.OpMultiply
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n%s", args[0], usage)
		return 1
	}

	fs := flag.NewFlagSet("qarith "+args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	shots := fs.Int("shots", cfg.Shots, "measurement samples per run")
	seed := fs.Uint64("seed", 0, "fixed sampling seed")
	showQASM := fs.Bool("qasm", false, "print the circuit as OpenQASM 2.0")
	showCounts := fs.Bool("counts", false, "print the measurement counts")
	outFile := fs.String("o", "", "write the circuit as OpenQASM 2.0 to `file`")

	// Flags may appear before, between or after the operands.
	var operands []string
	rest := args[1:]
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 1
		}
		if fs.NArg() == 0 {
			break
		}
		operands = append(operands, fs.Arg(0))
		rest = fs.Args()[1:]
	}
	if len(operands) != 2 {
		fmt.Fprintf(stderr, "Error: expected two operands, got %d\n", len(operands))
		return 1
	}

	a, err := parseOperand(operands[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	b, err := parseOperand(operands[1])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := []qarith.Option{
		qarith.FromConfig(cfg),
		qarith.WithShots(*shots),
		qarith.WithLogger(log),
	}
	seedSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	if seedSet {
		opts = append(opts, qarith.WithSeed(*seed))
	}
	engine := qarith.New(opts...)

	var run *qarith.Run
	if op == qarith.OpMultiply {
		run, err = engine.MultiplyRun(a, b)
	} else {
		run, err = engine.AddRun(a, b)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, run)

	if *showCounts {
		printCounts(stdout, run)
	}
	if *showQASM {
		fmt.Fprint(stdout, run.Circuit.ToQASM())
	}
	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(run.Circuit.ToQASM()), 0644); err != nil {
			fmt.Fprintf(stderr, "Save error: %v\n", err)
			return 1
		}
		log.Info().Str("run_id", run.ID.String()).Str("file", *outFile).Msg("Circuit saved")
	}
	return 0
}

func parseOperand(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", qarith.ErrInvalidOperand, s)
	}
	return n, nil
}

// printCounts writes one line per observed outcome, most frequent first.
func printCounts(w io.Writer, run *qarith.Run) {
	fmt.Fprintf(w, "counts (%d shots):\n", run.Counts.Total())
	for _, o := range run.Counts.Sorted() {
		value, err := codec.BitstringToInteger(o.Bitstring)
		if err != nil {
			continue
		}
		marker := ""
		if o.Bitstring == run.Bitstring {
			marker = "  <"
		}
		fmt.Fprintf(w, "  %s (%d)  %d  %.3f%s\n", o.Bitstring, value, o.Count, o.Probability, marker)
	}
}
