package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/raymyers/ralph-fp/pkg/arb"
	"github.com/raymyers/ralph-fp/pkg/arbgen"
	"github.com/raymyers/ralph-fp/pkg/ast"
	"github.com/raymyers/ralph-fp/pkg/lexer"
	"github.com/raymyers/ralph-fp/pkg/parser"
	"github.com/raymyers/ralph-fp/pkg/semantic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xyproto/env/v2"
)

var version = "0.1.0"

// defaultExt is the extension of the generated assembly file
const defaultExt = ".fp"

// Debug flags for dumping intermediate representations
var (
	dParse   bool
	dSymbols bool
	dAsm     bool
)

// Compilation options; verbose and outExt fall back to the environment
var (
	verbose bool
	watch   bool
	outPath string
	outExt  string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Accept CompCert-style single-dash debug flags
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the debug flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dsymbols", "dasm"}

// normalizeFlags converts single-dash debug flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ralph-fp [file]",
		Short: "ralph-fp compiles fragment shaders to ARB fragment programs",
		Long: `ralph-fp compiles a small GLSL-like fragment shader language to
ARBfp1.0 assembly. The target has no branch instructions, so if/else
statements are flattened into predicated writes.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			applyEnv(cmd.Flags())
			filename := args[0]

			// Handle -dparse: parse and dump the AST
			if dParse {
				return doParse(filename, out, errOut)
			}

			if watch {
				return doWatch(cmd.Context(), filename, out, errOut)
			}

			// -dasm selects the default output
			return doCompile(filename, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump after parsing")
	rootCmd.Flags().BoolVarP(&dSymbols, "dsymbols", "", false, "Dump the symbol register table before the assembly")
	rootCmd.Flags().BoolVarP(&dAsm, "dasm", "", false, "Dump assembly (default)")

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report constant folding (env RALPH_FP_VERBOSE)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Recompile whenever the source file changes")
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the assembly to this file")
	rootCmd.Flags().StringVar(&outExt, "ext", defaultExt, "Extension of the assembly file (env RALPH_FP_EXT)")

	return rootCmd
}

// applyEnv fills options not given on the command line from the environment.
// env caches the environment on first use, so it is reloaded on every call.
func applyEnv(flags *pflag.FlagSet) {
	env.Load()
	if !flags.Changed("verbose") {
		verbose = env.Bool("RALPH_FP_VERBOSE")
	}
	if !flags.Changed("ext") {
		outExt = env.Str("RALPH_FP_EXT", defaultExt)
	}
}

// parseFile reads and parses a shader, returning the AST and the source
func parseFile(filename string, errOut io.Writer) (*ast.Program, string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-fp: error reading %s: %v\n", filename, err)
		return nil, "", err
	}
	src := string(content)

	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(errOut, "%s: %s\n", filename, e)
		}
		return nil, src, fmt.Errorf("parsing failed with %d errors", len(p.Errors()))
	}
	return program, src, nil
}

// checkFile parses a shader and runs semantic analysis on it
func checkFile(filename string, errOut io.Writer) (*ast.Program, error) {
	program, src, err := parseFile(filename, errOut)
	if err != nil {
		return nil, err
	}

	errs := semantic.Check(program)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(errOut, "%s: %s\n", filename, e)
			fmt.Fprint(errOut, semantic.Excerpt(src, e.Pos))
		}
		return nil, fmt.Errorf("semantic analysis failed with %d errors", len(errs))
	}
	return program, nil
}

// doParse parses the file and writes the AST to a .parsed file
func doParse(filename string, out, errOut io.Writer) error {
	program, _, err := parseFile(filename, errOut)
	if err != nil {
		return err
	}

	outputFilename := parsedOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-fp: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	printer := ast.NewPrinter(outFile)
	printer.PrintProgram(program)

	// Also print to stdout for convenience
	printer = ast.NewPrinter(out)
	printer.PrintProgram(program)

	return nil
}

// doCompile runs the whole pipeline and writes the assembly to the output
// file and to stdout.
func doCompile(filename string, out, errOut io.Writer) error {
	program, err := checkFile(filename, errOut)
	if err != nil {
		return err
	}

	opts := arbgen.Options{}
	if verbose {
		opts.Log = errOut
	}
	if dSymbols {
		opts.Symbols = out
	}
	arbProg, err := arbgen.TranslateProgram(program, opts)
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", filename, err)
		return err
	}

	outputFilename := asmOutputFilename(filename)
	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "ralph-fp: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	printer := arb.NewPrinter(outFile)
	printer.PrintProgram(arbProg)

	printer = arb.NewPrinter(out)
	printer.PrintProgram(arbProg)

	return nil
}

// stripExt removes the source extension, if any
func stripExt(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

// parsedOutputFilename returns the output filename for -dparse:
// shader.frag -> shader.parsed
func parsedOutputFilename(filename string) string {
	return stripExt(filename) + ".parsed"
}

// asmOutputFilename returns the assembly output filename:
// shader.frag -> shader.fp, unless -o names one
func asmOutputFilename(filename string) string {
	if outPath != "" {
		return outPath
	}
	ext := outExt
	if ext == "" {
		ext = defaultExt
	}
	if filepath.Ext(filename) == ext {
		return filename + ext
	}
	return stripExt(filename) + ext
}
