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
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/resub/pkg/diag"
	"github.com/walteh/resub/pkg/replacer"
	"github.com/walteh/resub/pkg/source"
)

// 📦 Result is the outcome for one source. Skipped marks a source that could
// not be loaded or whose match run failed. Changed=false with Skipped=false
// means the pattern matched nothing: the source stays untouched and produces
// no preview output. A changed result whose output happens to equal the input
// is still written back.
type Result struct {
	Source  source.Source
	Output  []byte
	Changed bool
	Skipped bool
}

// 🎯 Pipeline applies one replacer across many sources concurrently.
type Pipeline struct {
	Replacer    replacer.Replacer
	Loader      *source.Loader
	Reporter    *diag.Reporter
	OnlyMatched bool
	UseColor    bool
}

// Run processes all sources on a worker pool sized to the hardware and
// returns results in the original source order. Per-source failures are
// reported through the diagnostics reporter and never abort siblings; Run
// itself cannot fail.
func (p *Pipeline) Run(ctx context.Context, sources []source.Source) []Result {
	results := make([]Result, len(sources))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		g.Go(func() error {
			results[i] = p.processOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Pipeline) processOne(ctx context.Context, src source.Source) Result {
	loaded, err := p.Loader.Load(ctx, src)
	if err != nil {
		p.Reporter.SourceSkipped(src.Display(), err)
		return Result{Source: src, Skipped: true}
	}
	// Released before any write-back touches the same path: windows refuses
	// to rename over a file with a user-mapped section open.
	defer loaded.Release()

	if len(loaded.Data) > source.LargeFileThreshold {
		p.Reporter.LargeSource(src.Display(), len(loaded.Data))
	}

	out, ok, err := p.Replacer.Replace(loaded.Data, p.OnlyMatched, p.UseColor)
	if err != nil {
		p.Reporter.MatchFailed(src.Display(), err)
		return Result{Source: src, Skipped: true}
	}
	if !ok {
		zerolog.Ctx(ctx).Debug().Str("source", src.Display()).Msg("no match")
		return Result{Source: src}
	}

	return Result{Source: src, Output: out, Changed: true}
}
