// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"

	"tacopt/internal/interp"
	"tacopt/internal/ir"
	"tacopt/internal/pipeline"
	"tacopt/internal/terr"
	"tacopt/internal/textir"
)

// passAliases tolerates the case and separator variants a user or a
// hand-edited flag value might use ("DceTrivial", "dce_trivial",
// "DCE-TRIVIAL") by normalizing through strcase before the pipeline
// package's exact pass names are looked up.
var passAliases = map[string]string{
	"dce_trivial":      "dce/trivial",
	"dce_reachability": "dce/reachability",
	"dce_drop_kill":    "dce/drop-kill",
	"dce/trivial":      "dce/trivial",
	"dce/reachability": "dce/reachability",
	"dce/drop_kill":    "dce/drop-kill",
	"lvn":              "lvn",
	"ssa":              "ssa",
	"licm":             "licm",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tacopt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		in            = fs.String("in", "-", "input file, or - for stdin")
		out           = fs.String("out", "-", "output file, or - for stdout")
		text          = fs.Bool("text", false, "read and write the textual IR syntax instead of JSON")
		passesFlag    = fs.String("passes", "", "comma-separated pass list (e.g. dce-trivial,lvn,ssa,licm)")
		pipelinePath  = fs.String("pipeline", "", "path to a pipeline YAML config (overrides -passes)")
		fold          = fs.Bool("fold", false, "enable constant folding inside the lvn pass")
		verbose       = fs.Bool("v", false, "log each pass's status per function")
		runFn         = fs.String("run", "", "execute the named function with the reference interpreter after the pipeline runs")
		runArgs       = fs.String("run-args", "", "comma-separated integer/bool arguments for -run")
		noColor       = fs.Bool("no-color", false, "disable colorized diagnostics")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *noColor {
		color.NoColor = true
	}

	cfg, err := resolveConfig(*pipelinePath, *passesFlag, *fold)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("tacopt: %s", err))
		return 2
	}

	prog, err := readProgram(*in, stdin, *text)
	if err != nil {
		fmt.Fprintln(stderr, color.RedString("tacopt: %s", err))
		return 2
	}

	var logOut io.Writer
	if *verbose {
		logOut = stderr
	}

	transformed, results := pipeline.RunProgram(prog, cfg, logOut)

	reporter := terr.NewReporter(stderr)
	fatal := false
	for _, fn := range prog.Functions {
		res := results[fn.Name]
		for _, d := range res.Diagnostics {
			reporter.Report(d)
			if d.Level == terr.LevelFatal {
				fatal = true
			}
		}
	}

	if err := writeProgram(*out, stdout, transformed, *text); err != nil {
		fmt.Fprintln(stderr, color.RedString("tacopt: %s", err))
		return 1
	}

	if *runFn != "" {
		interpArgs, err := parseRunArgs(*runArgs)
		if err != nil {
			fmt.Fprintln(stderr, color.RedString("tacopt: %s", err))
			return 2
		}
		result, err := interp.Run(transformed, *runFn, interpArgs)
		if err != nil {
			fmt.Fprintln(stderr, color.RedString("tacopt: interpreter: %s", err))
			return 1
		}
		fmt.Fprint(stdout, result.Stdout)
		fmt.Fprintf(stderr, "total_dyn_inst: %d\n", result.DynInstCount)
	}

	if fatal {
		return 1
	}
	return 0
}

// resolveConfig builds a pipeline.Config either from a YAML file
// (-pipeline, which wins) or from the -passes flag's inline list.
func resolveConfig(pipelinePath, passesFlag string, fold bool) (*pipeline.Config, error) {
	if pipelinePath != "" {
		return pipeline.LoadConfig(pipelinePath)
	}
	if passesFlag == "" {
		return nil, fmt.Errorf("no passes requested: pass -passes or -pipeline")
	}

	var names []string
	for _, raw := range strings.Split(passesFlag, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key := strcase.ToSnake(raw)
		canonical, ok := passAliases[key]
		if !ok {
			return nil, fmt.Errorf("unknown pass %q", raw)
		}
		names = append(names, canonical)
	}
	return &pipeline.Config{Passes: names, FoldConstants: fold}, nil
}

func readProgram(path string, stdin io.Reader, text bool) (*ir.Program, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if text {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return textir.Parse(string(data))
	}
	return ir.DecodeProgram(r)
}

func writeProgram(path string, stdout io.Writer, p *ir.Program, text bool) error {
	var w io.Writer
	if path == "-" {
		w = stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if text {
		_, err := io.WriteString(w, textir.Print(p))
		return err
	}
	return ir.EncodeProgram(w, p)
}

// parseRunArgs turns "-run-args 3,true,-2" into typed interpreter
// operands, trying integer then boolean for each token.
func parseRunArgs(raw string) ([]any, error) {
	if raw == "" {
		return nil, nil
	}
	var out []any
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			out = append(out, n)
			continue
		}
		if b, err := strconv.ParseBool(tok); err == nil {
			out = append(out, b)
			continue
		}
		return nil, fmt.Errorf("invalid -run-args operand %q", tok)
	}
	return out, nil
}
