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

// Package diag provides user-facing diagnostics for per-source failures,
// pairing terminal output on stderr with structured logging.
package diag

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 Reporter emits per-source warnings and errors. Replacement results go
// to stdout, so every diagnostic goes to stderr to keep preview output clean
// for piping.
type Reporter struct {
	log     zerolog.Logger
	warning pterm.PrefixPrinter
	failure pterm.PrefixPrinter
}

// 🎯 NewReporter creates a reporter bound to the context logger.
func NewReporter(ctx context.Context) *Reporter {
	return NewReporterTo(ctx, os.Stderr)
}

// NewReporterTo writes diagnostics to w instead of stderr. Used by tests.
func NewReporterTo(ctx context.Context, w io.Writer) *Reporter {
	return &Reporter{
		log:     *zerolog.Ctx(ctx),
		warning: *pterm.Warning.WithWriter(w),
		failure: *pterm.Error.WithWriter(w),
	}
}

// 📝 SourceSkipped reports a source dropped from the batch (missing path,
// unreadable, unmappable). Siblings continue.
func (r *Reporter) SourceSkipped(name string, err error) {
	r.warning.Printfln("skipping %s: %v", name, err)
	r.log.Warn().Str("source", name).Err(err).Msg("source skipped")
}

// 📝 MatchFailed reports an expressive-dialect runtime failure for one
// source. The source yields no output; siblings continue.
func (r *Reporter) MatchFailed(name string, err error) {
	r.warning.Printfln("match aborted for %s: %v", name, err)
	r.log.Warn().Str("source", name).Err(err).Msg("match engine failure")
}

// 📝 LargeSource warns that a source exceeds the resident-memory threshold.
// Non-fatal: the whole content must be held in memory regardless.
func (r *Reporter) LargeSource(name string, size int) {
	r.warning.Printfln("%s is %d bytes; the whole file is held in memory and may be slow to process", name, size)
	r.log.Warn().Str("source", name).Int("size", size).Msg("large source")
}

// 📝 Error reports a fatal error before the process exits non-zero.
func (r *Reporter) Error(err error) {
	r.failure.Println(fmt.Sprintf("error: %v", err))
	r.log.Error().Err(err).Msg("fatal")
}
