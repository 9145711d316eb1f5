package fittrack

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command in-process against dbFile. Flag values
// are reset first since the command tree is package state.
func runCLI(t *testing.T, dbFile string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append([]string{"--db", dbFile}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, dbFile string, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, dbFile, args...)
	if err != nil {
		t.Fatalf("%s failed: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "fittrack.db")
}

func TestRootHelp(t *testing.T) {
	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected help output")
	}
	for _, name := range []string{"workout", "meal", "mood", "report", "delete"} {
		if !strings.Contains(buf.String(), name) {
			t.Fatalf("expected %q in help output, got: %s", name, buf.String())
		}
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := testDBPath(t)
	for i := 0; i < 2; i++ {
		out, _, err := runCLI(t, path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if !strings.Contains(out, "schema v2") {
			t.Fatalf("expected schema version in output, got: %s", out)
		}
	}
}

func TestDBPathFromEnvironment(t *testing.T) {
	path := testDBPath(t)
	t.Setenv("FITTRACK_DB", path)

	resetFlags(rootCmd)
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"init"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init with env db: %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Fatalf("expected env db path in output, got: %s", buf.String())
	}
}
