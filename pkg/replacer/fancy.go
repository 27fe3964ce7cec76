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

package replacer

import (
	"strconv"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// fancyMatchTimeout bounds backtracking per match attempt. Hitting it aborts
// the whole Replace call with an error.
const fancyMatchTimeout = time.Second

// 🎯 FancyReplacer is the expressive dialect: a backtracking engine with
// lookaround, matching decoded text rather than raw bytes. Matching can fail
// at runtime when the backtracking guard trips.
type FancyReplacer struct {
	re           *regexp2.Regexp
	replaceWith  string
	isLiteral    bool
	replacements int
}

var _ Replacer = (*FancyReplacer)(nil)

type fancyBuild struct {
	pattern         string
	caseInsensitive bool
}

// 🏭 NewFancyReplacer compiles an expressive-dialect replacer. The flag set
// is smaller than the constrained dialect's: only `c`, `i` and `w` are
// recognized; there is no multi-line default and no `e`/`s` handling.
func NewFancyReplacer(lookFor, replaceWith string, literal bool, flags string, replacements int) (*FancyReplacer, error) {
	if literal {
		lookFor = regexp2.Escape(lookFor)
	} else {
		if err := ValidateCaptures(replaceWith); err != nil {
			return nil, errors.Errorf("validating replacement template: %w", err)
		}
		replaceWith = unescapeTemplate(replaceWith)
	}

	build := fancyBuild{pattern: lookFor}
	for _, f := range flags {
		switch f {
		case 'c':
			build.caseInsensitive = false
		case 'i':
			build.caseInsensitive = true
		case 'w':
			build = fancyBuild{pattern: `\b` + lookFor + `\b`}
		}
	}

	opts := regexp2.None
	if build.caseInsensitive {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(build.pattern, opts)
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}
	re.MatchTimeout = fancyMatchTimeout

	return &FancyReplacer{
		re:           re,
		replaceWith:  replaceWith,
		isLiteral:    literal,
		replacements: replacements,
	}, nil
}

// Replace decodes the buffer to runes, walks matches left-to-right and
// rebuilds the output. Match positions are rune offsets, so gap and tail
// copies slice the rune view rather than the byte view.
func (r *FancyReplacer) Replace(content []byte, onlyMatched bool, useColor bool) ([]byte, bool, error) {
	runes := []rune(string(content))

	m, err := r.re.FindRunesMatch(runes)
	if err != nil {
		return nil, false, errors.Errorf("matching: %w", err)
	}
	if m == nil {
		return nil, false, nil
	}

	out := make([]byte, 0, len(content))
	last := 0
	for i := 0; m != nil; i++ {
		start, end := m.Index, m.Index+m.Length
		if !onlyMatched {
			out = append(out, string(runes[last:start])...)
		}
		expanded := r.expandMatch(m)
		if useColor && !onlyMatched {
			expanded = colorize(expanded)
		}
		out = append(out, expanded...)
		last = end

		if r.replacements > 0 && i >= r.replacements-1 {
			break
		}
		m, err = r.re.FindNextMatch(m)
		if err != nil {
			return nil, false, errors.Errorf("matching: %w", err)
		}
	}
	if !onlyMatched {
		out = append(out, string(runes[last:])...)
	}
	return out, true, nil
}

func (r *FancyReplacer) expandMatch(m *regexp2.Match) []byte {
	if r.isLiteral {
		return []byte(r.replaceWith)
	}

	return expandTemplate(nil, r.replaceWith, func(name string) string {
		var g *regexp2.Group
		if allDigits(name) {
			num, _ := strconv.Atoi(name)
			g = m.GroupByNumber(num)
		} else {
			g = m.GroupByName(name)
		}
		if g == nil || len(g.Captures) == 0 {
			return ""
		}
		return g.String()
	})
}
