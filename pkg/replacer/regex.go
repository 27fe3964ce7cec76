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
	"strings"

	"github.com/coregx/coregex"
	"gitlab.com/tozd/go/errors"
)

// 🎯 RegexReplacer is the constrained dialect: a linear-time engine matching
// raw bytes. Once compiled, matching and capture extraction cannot fail.
type RegexReplacer struct {
	re           *coregex.Regex
	replaceWith  string
	isLiteral    bool
	replacements int
}

var _ Replacer = (*RegexReplacer)(nil)

// regexBuild accumulates flag state before compilation. Multi-line anchoring
// is on by default: `^` and `$` match at every line boundary.
type regexBuild struct {
	pattern         string
	caseInsensitive bool
	multiLine       bool
	dotAll          bool
}

func newRegexBuild(pattern string) regexBuild {
	return regexBuild{pattern: pattern, multiLine: true}
}

// inlinePattern renders the accumulated flags as an inline group prefix.
func (b regexBuild) inlinePattern() string {
	var inline string
	if b.caseInsensitive {
		inline += "i"
	}
	if b.multiLine {
		inline += "m"
	}
	if b.dotAll {
		inline += "s"
	}
	if inline == "" {
		return b.pattern
	}
	return "(?" + inline + ")" + b.pattern
}

// 🏭 NewRegexReplacer compiles a constrained-dialect replacer. literal escapes
// the pattern so it matches verbatim and uses the replacement as raw text. In
// regex mode the replacement template is validated and unescaped once, here.
// Flags are parsed character-by-character, later characters override earlier
// ones, unknown characters are ignored. replacements is the ceiling: 0 means
// unlimited.
func NewRegexReplacer(lookFor, replaceWith string, literal bool, flags string, replacements int) (*RegexReplacer, error) {
	if literal {
		lookFor = coregex.QuoteMeta(lookFor)
	} else {
		if err := ValidateCaptures(replaceWith); err != nil {
			return nil, errors.Errorf("validating replacement template: %w", err)
		}
		replaceWith = unescapeTemplate(replaceWith)
	}

	build := newRegexBuild(lookFor)
	for _, f := range flags {
		switch f {
		case 'c':
			build.caseInsensitive = false
		case 'i':
			build.caseInsensitive = true
		case 'e':
			build.multiLine = false
		case 's':
			// `s` turns multi-line off unless an `m` co-occurs in the flag
			// string. No `m` flag is ever recognized on its own, so `s`
			// alone always disables multi-line.
			if !strings.ContainsRune(flags, 'm') {
				build.multiLine = false
			}
			build.dotAll = true
		case 'w':
			// Rebuild with word-boundary anchors. Flag characters seen so
			// far are discarded with the old build, and so is the multi-line
			// default: after `w`, `^` and `$` anchor only at buffer edges.
			// Later flag characters still apply to the rebuilt engine.
			build = regexBuild{pattern: `\b` + lookFor + `\b`}
		}
	}

	re, err := coregex.Compile(build.inlinePattern())
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}

	return &RegexReplacer{
		re:           re,
		replaceWith:  replaceWith,
		isLiteral:    literal,
		replacements: replacements,
	}, nil
}

// Replace walks matches left-to-right, copying the gap before each match,
// appending the expanded replacement, and finally the unconsumed tail. The
// error result is always nil for this dialect.
func (r *RegexReplacer) Replace(content []byte, onlyMatched bool, useColor bool) ([]byte, bool, error) {
	limit := -1
	if r.replacements > 0 {
		limit = r.replacements
	}

	matches := r.re.FindAllSubmatchIndex(content, limit)
	if len(matches) == 0 {
		return nil, false, nil
	}

	out := make([]byte, 0, len(content))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !onlyMatched {
			out = append(out, content[last:start]...)
		}
		expanded := r.expandMatch(content, m)
		if useColor && !onlyMatched {
			expanded = colorize(expanded)
		}
		out = append(out, expanded...)
		last = end
	}
	if !onlyMatched {
		out = append(out, content[last:]...)
	}
	return out, true, nil
}

// expandMatch renders the replacement for one match. Literal mode bypasses
// template expansion entirely, so `$` has no meaning there.
func (r *RegexReplacer) expandMatch(content []byte, m []int) []byte {
	if r.isLiteral {
		return []byte(r.replaceWith)
	}

	names := r.re.SubexpNames()
	return expandTemplate(nil, r.replaceWith, func(name string) string {
		num := -1
		if allDigits(name) {
			num, _ = strconv.Atoi(name)
		} else {
			for i, n := range names {
				if n == name {
					num = i
					break
				}
			}
		}
		if num < 0 || 2*num+1 >= len(m) || m[2*num] < 0 {
			return ""
		}
		return string(content[m[2*num]:m[2*num+1]])
	})
}
