// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/resub/pkg/pipeline"
	"github.com/walteh/resub/pkg/source"
)

func writeBackContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestWriteBackRoundTrip(t *testing.T) {
	ctx := writeBackContext(t)
	path := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0640))

	newContent := []byte("replaced content, longer than before")
	results := []pipeline.Result{
		{Source: source.File(path), Output: newContent, Changed: true},
	}

	require.NoError(t, pipeline.WriteBackAll(ctx, results))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, newContent, got, "file holds exactly the new bytes")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "permission bits preserved")
}

func TestWriteBackEmptyContent(t *testing.T) {
	ctx := writeBackContext(t)
	path := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	results := []pipeline.Result{
		{Source: source.File(path), Output: []byte{}, Changed: true},
	}

	require.NoError(t, pipeline.WriteBackAll(ctx, results))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got, "file truncated to empty without mapping zero bytes")
}

func TestWriteBackSkipsUnchangedAndStdin(t *testing.T) {
	ctx := writeBackContext(t)
	path := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep me"), 0644))

	results := []pipeline.Result{
		{Source: source.File(path)}, // no match
		{Source: source.Stdin(), Output: []byte("ignored"), Changed: true},
	}

	require.NoError(t, pipeline.WriteBackAll(ctx, results))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got), "unchanged file is never rewritten")
}

func TestWriteBackLeavesNoTempFiles(t *testing.T) {
	ctx := writeBackContext(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa"), 0644))

	results := []pipeline.Result{
		{Source: source.File(path), Output: []byte("bbb"), Changed: true},
	}
	require.NoError(t, pipeline.WriteBackAll(ctx, results))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the target remains")
	assert.Equal(t, "target.txt", entries[0].Name())
}

func TestWriteBackFailuresAggregated(t *testing.T) {
	ctx := writeBackContext(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte("aaa"), 0644))

	badOne := filepath.Join(dir, "missing", "one.txt")
	badTwo := filepath.Join(dir, "missing", "two.txt")

	results := []pipeline.Result{
		{Source: source.File(badOne), Output: []byte("x"), Changed: true},
		{Source: source.File(good), Output: []byte("bbb"), Changed: true},
		{Source: source.File(badTwo), Output: []byte("y"), Changed: true},
	}

	err := pipeline.WriteBackAll(ctx, results)
	require.Error(t, err)

	var failed *pipeline.FailedJobsError
	require.ErrorAs(t, err, &failed)
	require.Len(t, failed.Jobs, 2, "every failing path is collected")
	assert.Equal(t, badOne, failed.Jobs[0].Path)
	assert.Equal(t, badTwo, failed.Jobs[1].Path)
	assert.Contains(t, err.Error(), badOne)
	assert.Contains(t, err.Error(), badTwo)

	got, readErr := os.ReadFile(good)
	require.NoError(t, readErr)
	assert.Equal(t, "bbb", string(got), "failures never block the remaining files")
}

func TestWriteBackFollowsSymlink(t *testing.T) {
	ctx := writeBackContext(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("aaa"), 0644))

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	results := []pipeline.Result{
		{Source: source.File(link), Output: []byte("bbb"), Changed: true},
	}
	require.NoError(t, pipeline.WriteBackAll(ctx, results))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "bbb", string(got), "the canonical target is replaced")

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "the symlink itself survives")
}
