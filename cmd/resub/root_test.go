package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 runCommand executes the root command with wired-in streams
func runCommand(t *testing.T, stdin string, args ...string) (stdout string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStdinToStdout(t *testing.T) {
	out, err := runCommand(t, "aaa", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "bbb", out, "stdin input always previews to stdout")
}

func TestStdinOnlyMatched(t *testing.T) {
	out, err := runCommand(t, "xaxa", "-o", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "bb", out)
}

func TestStdinMaxReplacements(t *testing.T) {
	out, err := runCommand(t, "aaa", "-n", "1", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "baa", out)
}

func TestStdinFancyDialect(t *testing.T) {
	out, err := runCommand(t, "foobar", "--fancy", `foo(?=bar)`, "baz")
	require.NoError(t, err)
	assert.Equal(t, "bazbar", out)
}

func TestFileWriteBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	out, err := runCommand(t, "", "a", "b", path)
	require.NoError(t, err)
	assert.Empty(t, out, "in-place mode writes nothing to stdout")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(got))
}

func TestPreviewFlagLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	out, err := runCommand(t, "", "-p", "a", "b", path)
	require.NoError(t, err)
	assert.Equal(t, "bbb", out)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(got), "preview never mutates the file")
}

func TestPreviewSeparatorsForMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one.txt")
	two := filepath.Join(dir, "two.txt")
	require.NoError(t, os.WriteFile(one, []byte("a1"), 0644))
	require.NoError(t, os.WriteFile(two, []byte("a2"), 0644))

	out, err := runCommand(t, "", "-p", "a", "b", one, two)
	require.NoError(t, err)
	assert.Equal(t, "----- "+one+" -----\nb1----- "+two+" -----\nb2", out)
}

func TestFixedStringsConflictsWithFlags(t *testing.T) {
	_, err := runCommand(t, "", "-F", "-f", "i", "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestFixedStringsLiteralMatch(t *testing.T) {
	out, err := runCommand(t, "((special[]))y", "-F", "((special[]))", "x")
	require.NoError(t, err)
	assert.Equal(t, "xy", out)
}

func TestInvalidTemplateFailsBeforeIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	_, err := runCommand(t, "", "(a)", "$1a", path)
	require.Error(t, err, "ambiguous capture is a construction-time error")

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "aaa", string(got), "the file was never touched")
}

func TestExcludeGlob(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.txt")
	skip := filepath.Join(dir, "skip.log")
	require.NoError(t, os.WriteFile(keep, []byte("aaa"), 0644))
	require.NoError(t, os.WriteFile(skip, []byte("aaa"), 0644))

	_, err := runCommand(t, "", "--exclude", "**/*.log", "a", "b", keep, skip)
	require.NoError(t, err)

	kept, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(kept))

	skipped, err := os.ReadFile(skip)
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(skipped), "excluded file is untouched")
}

func TestAllArgumentsExcluded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "only.log")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	out, err := runCommand(t, "never read", "--exclude", "**/*.log", "a", "b", path)
	require.NoError(t, err)
	assert.Empty(t, out, "no fallback to stdin when every file argument is excluded")

	got, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "aaa", string(got))
}

func TestColorAlways(t *testing.T) {
	out, err := runCommand(t, "aaa", "--color", "always", "a", "b")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[34m", "forced color emits markers even without a TTY")
}

func TestColorNever(t *testing.T) {
	out, err := runCommand(t, "aaa", "--color", "never", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "bbb", out)
}

func TestFilterExcluded(t *testing.T) {
	kept, err := filterExcluded([]string{"a.txt", "b.log", "sub/c.log"}, []string{"*.log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "sub/c.log"}, kept, "plain glob does not cross separators")

	kept, err = filterExcluded([]string{"a.txt", "b.log", "sub/c.log"}, []string{"**/*.log"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, kept)

	_, err = filterExcluded([]string{"a.txt"}, []string{"[bad"})
	assert.Error(t, err, "malformed glob is a usage error")
}

func TestResolveColor(t *testing.T) {
	assert.True(t, resolveColor("always", &bytes.Buffer{}))
	assert.False(t, resolveColor("never", &bytes.Buffer{}))
	assert.False(t, resolveColor("auto", &bytes.Buffer{}), "a non-terminal writer stays uncolored")
}
