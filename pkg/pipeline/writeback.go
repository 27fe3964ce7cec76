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

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/resub/pkg/source"
)

// 🎯 FailedJob is one file whose write-back failed, with its cause.
type FailedJob struct {
	Path string
	Err  error
}

// 📦 FailedJobsError aggregates every write-back failure in a batch. It is
// returned only after all files have been attempted.
type FailedJobsError struct {
	Jobs []FailedJob
}

func (e *FailedJobsError) Error() string {
	var b strings.Builder
	b.WriteString("failed to write these files:\n")
	for _, job := range e.Jobs {
		b.WriteString("  ")
		b.WriteString(job.Path)
		b.WriteString(": ")
		b.WriteString(job.Err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// WriteBackAll persists every changed file result to its original path. A
// failing file never stops the remaining ones; failures are collected and
// returned together as a *FailedJobsError.
func WriteBackAll(ctx context.Context, results []Result) error {
	var failed []FailedJob
	for _, res := range results {
		if !res.Changed || res.Source.IsStdin() {
			continue
		}
		if err := writeBack(res.Source.Path(), res.Output); err != nil {
			failed = append(failed, FailedJob{Path: res.Source.Path(), Err: err})
			continue
		}
		zerolog.Ctx(ctx).Debug().
			Str("path", res.Source.Path()).
			Int("bytes", len(res.Output)).
			Msg("wrote file")
	}
	if len(failed) > 0 {
		return &FailedJobsError{Jobs: failed}
	}
	return nil
}

// writeBack replaces path's contents with data: create a sibling temp file on
// the same filesystem, size it, copy the original permission bits, fill it
// through a writable mapping, flush, then rename it over the target. The
// original file is never observed partially written.
func writeBack(path string, data []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving path: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return errors.Errorf("canonicalizing path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(canonical), ".resub-*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		tmp.Close()
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Truncate(int64(len(data))); err != nil {
		return errors.Errorf("sizing temp file: %w", err)
	}

	// Best effort: the write must not fail just because permissions could
	// not be copied.
	if info, err := os.Stat(canonical); err == nil {
		_ = tmp.Chmod(info.Mode().Perm())
	}

	// Mapping zero bytes is an error on some platforms; an empty file needs
	// no filling anyway.
	if len(data) > 0 {
		view, err := source.MapWritable(tmp, len(data))
		if err != nil {
			return errors.Errorf("mapping temp file: %w", err)
		}
		copy(view.Data(), data)
		if err := view.Flush(); err != nil {
			view.Close()
			return errors.Errorf("flushing temp file: %w", err)
		}
		if err := view.Close(); err != nil {
			return errors.Errorf("unmapping temp file: %w", err)
		}
	}

	if err := tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, canonical); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	committed = true
	return nil
}
