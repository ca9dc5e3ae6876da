package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetFlags() {
	dParse = false
	dSymbols = false
	dAsm = false
	verbose = false
	watch = false
	outPath = ""
	outExt = defaultExt
}

func writeShader(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

const simpleShader = `{
    float f = 2.0;
    if (f < 3.0) gl_FragColor = env1;
}`

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	expectedFlags := []string{"dparse", "dsymbols", "dasm", "verbose", "watch", "output", "ext"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "ralph-fp [file]") {
		t.Errorf("expected usage, got %q", out.String())
	}
}

func TestCompileWritesOutputFile(t *testing.T) {
	testFile := writeShader(t, "shader.frag", simpleShader)
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compilation failed: %v\nStderr: %s", err, errOut.String())
	}

	content, err := os.ReadFile(strings.TrimSuffix(testFile, ".frag") + ".fp")
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if string(content) != out.String() {
		t.Errorf("output file and stdout differ\n--- file ---\n%s\n--- stdout ---\n%s", content, out.String())
	}
	if !strings.HasPrefix(out.String(), "!!ARBfp1.0") {
		t.Errorf("expected ARB program header, got %q", out.String())
	}
}

func TestOutputFlag(t *testing.T) {
	testFile := writeShader(t, "shader.frag", simpleShader)
	target := filepath.Join(filepath.Dir(testFile), "custom.txt")
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"-o", target, testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compilation failed: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("expected %s to be created: %v", target, err)
	}
}

// compileWith runs the root command on file and returns stderr
func compileWith(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compilation failed: %v\nStderr: %s", err, errOut.String())
	}
	return errOut.String()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestEnvironmentFallbacks(t *testing.T) {
	const note = "const float 'c' folded to 6.000000"
	src := `{ const float c = 2.0 * 3.0; gl_FragColor = env1 * c; }`

	// Reads the environment once before the variables are set, as any
	// earlier command in the same process would.
	compileWith(t, writeShader(t, "warmup.frag", src))

	t.Setenv("RALPH_FP_VERBOSE", "true")
	t.Setenv("RALPH_FP_EXT", ".arb")

	t.Run("env applies", func(t *testing.T) {
		testFile := writeShader(t, "shader.frag", src)
		base := strings.TrimSuffix(testFile, ".frag")

		stderr := compileWith(t, testFile)
		if !strings.Contains(stderr, note) {
			t.Errorf("expected folding note, got %q", stderr)
		}
		if !fileExists(base + ".arb") {
			t.Error("expected .arb output")
		}
		if fileExists(base + ".fp") {
			t.Error("RALPH_FP_EXT should replace the default extension")
		}
	})

	t.Run("flags win", func(t *testing.T) {
		testFile := writeShader(t, "shader.frag", src)
		base := strings.TrimSuffix(testFile, ".frag")

		// The same environment without flags takes effect...
		if stderr := compileWith(t, testFile); !strings.Contains(stderr, note) {
			t.Fatalf("environment not applied, got %q", stderr)
		}
		if !fileExists(base + ".arb") {
			t.Fatal("environment extension not applied")
		}

		// ...and explicit flags override it
		stderr := compileWith(t, "--verbose=false", "--ext", ".out", testFile)
		if strings.Contains(stderr, "folded") {
			t.Errorf("--verbose=false should silence notes, got %q", stderr)
		}
		if !fileExists(base + ".out") {
			t.Error("expected .out output")
		}
	})

	t.Run("env reread per run", func(t *testing.T) {
		var out, errOut bytes.Buffer
		cmd := newRootCmd(&out, &errOut)

		t.Setenv("RALPH_FP_EXT", ".one")
		applyEnv(cmd.Flags())
		if outExt != ".one" {
			t.Errorf("outExt = %q, want .one", outExt)
		}
		t.Setenv("RALPH_FP_EXT", ".two")
		applyEnv(cmd.Flags())
		if outExt != ".two" {
			t.Errorf("outExt = %q, want .two after the environment changed", outExt)
		}
	})
}

func TestDParseFlag(t *testing.T) {
	testFile := writeShader(t, "shader.frag", `{ int a = 1; a = a + 2; }`)
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dparse", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error for -dparse, got %v", err)
	}

	output := out.String()
	for _, want := range []string{"(DECLARATION a int 1)", "(BINARY ANY_TYPE + a 2)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}

	content, err := os.ReadFile(parsedOutputFilename(testFile))
	if err != nil {
		t.Fatalf("expected .parsed file: %v", err)
	}
	if string(content) != output {
		t.Errorf(".parsed file and stdout differ")
	}
}

func TestDParseFlagFileNotFound(t *testing.T) {
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dparse", "nonexistent.frag"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if !strings.Contains(errOut.String(), "error reading") {
		t.Errorf("expected read error, got %q", errOut.String())
	}
}

func TestDSymbolsFlag(t *testing.T) {
	testFile := writeShader(t, "shader.frag", `{ int a; { int a; } }`)
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"--dsymbols", testFile})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compilation failed: %v", err)
	}

	output := out.String()
	table := strings.Index(output, "Declared Symbol Register Table")
	asm := strings.Index(output, "!!ARBfp1.0")
	if table == -1 || asm == -1 || table > asm {
		t.Fatalf("expected the symbol table before the assembly, got:\n%s", output)
	}
	for _, want := range []string{"$a_0 : (DECLARATION a int)", "$a_1 : (DECLARATION a int)"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in:\n%s", want, output)
		}
	}
}

func TestCompileReportsErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"parse", "{ int a = ; }", "expected expression"},
		{"semantic", "{ int a = 1.0; }", "noncompatible type"},
		{"loop", "{ bool b; while (b) b = false; }", "while loops are not supported"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			testFile := writeShader(t, "bad.frag", tc.input)
			resetFlags()

			var out, errOut bytes.Buffer
			cmd := newRootCmd(&out, &errOut)
			cmd.SetArgs([]string{testFile})
			if err := cmd.Execute(); err == nil {
				t.Fatal("expected compilation to fail")
			}
			if !strings.Contains(errOut.String(), tc.wantMsg) {
				t.Errorf("expected stderr to contain %q, got %q", tc.wantMsg, errOut.String())
			}
			if !strings.Contains(errOut.String(), testFile) {
				t.Errorf("expected stderr to name the file, got %q", errOut.String())
			}
			if _, err := os.Stat(asmOutputFilename(testFile)); err == nil {
				t.Error("no output file should be written on failure")
			}
		})
	}
}

func TestSemanticErrorExcerpt(t *testing.T) {
	testFile := writeShader(t, "bad.frag", "{\n    int a = 1.0;\n}")
	resetFlags()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{testFile})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected compilation to fail")
	}

	want := "      2:     int a = 1.0;\n             ^^^\n"
	if !strings.Contains(errOut.String(), want) {
		t.Errorf("expected the source excerpt %q, got %q", want, errOut.String())
	}
}

func TestOutputFilenames(t *testing.T) {
	resetFlags()

	tests := []struct {
		input  string
		parsed string
		asm    string
	}{
		{"shader.frag", "shader.parsed", "shader.fp"},
		{"dir/light.glsl", "dir/light.parsed", "dir/light.fp"},
		{"noext", "noext.parsed", "noext.fp"},
		{"already.fp", "already.parsed", "already.fp.fp"},
	}
	for _, tc := range tests {
		if got := parsedOutputFilename(tc.input); got != tc.parsed {
			t.Errorf("parsedOutputFilename(%q) = %q, want %q", tc.input, got, tc.parsed)
		}
		if got := asmOutputFilename(tc.input); got != tc.asm {
			t.Errorf("asmOutputFilename(%q) = %q, want %q", tc.input, got, tc.asm)
		}
	}

	outPath = "explicit.s"
	defer resetFlags()
	if got := asmOutputFilename("shader.frag"); got != "explicit.s" {
		t.Errorf("asmOutputFilename with -o = %q", got)
	}
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"single-dash dparse", []string{"-dparse", "a.frag"}, []string{"--dparse", "a.frag"}},
		{"double-dash unchanged", []string{"--dsymbols", "a.frag"}, []string{"--dsymbols", "a.frag"}},
		{"mixed flags", []string{"a.frag", "-dsymbols", "-dasm"}, []string{"a.frag", "--dsymbols", "--dasm"}},
		{"other flags unchanged", []string{"-o", "out.fp", "-v", "a.frag"}, []string{"-o", "out.fp", "-v", "a.frag"}},
		{"no flags", []string{"a.frag"}, []string{"a.frag"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := normalizeFlags(tc.input)
			if strings.Join(result, " ") != strings.Join(tc.expected, " ") {
				t.Errorf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}

// waitForFile polls until path holds a complete program containing want
func waitForFile(t *testing.T, path, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		content, err := os.ReadFile(path)
		if err == nil && strings.HasSuffix(string(content), "END\n") && strings.Contains(string(content), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in %s", want, path)
}

func TestWatchRecompiles(t *testing.T) {
	testFile := writeShader(t, "shader.frag", `{ float a = 1.0; }`)
	resetFlags()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var out, errOut bytes.Buffer
	go func() {
		done <- doWatch(ctx, testFile, &out, &errOut)
	}()

	asmFile := asmOutputFilename(testFile)
	waitForFile(t, asmFile, "$a_0")

	if err := os.WriteFile(testFile, []byte(`{ float b = 1.0; }`), 0644); err != nil {
		t.Fatal(err)
	}
	waitForFile(t, asmFile, "$b_0")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
	if !strings.Contains(errOut.String(), "changed, recompiling") {
		t.Errorf("expected a recompile message, got %q", errOut.String())
	}
}
