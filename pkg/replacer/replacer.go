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
	"github.com/fatih/color"
)

// 🎯 Replacer applies a compiled pattern to a buffer and produces replaced
// output. ok=false means the pattern matched nothing and the caller should
// treat the source as unchanged. Only the fancy dialect can return an error.
type Replacer interface {
	Replace(content []byte, onlyMatched bool, useColor bool) (out []byte, ok bool, err error)
}

// matchColor highlights expanded replacements in preview output. Color is
// forced on here because the caller has already resolved the color mode.
var matchColor = func() *color.Color {
	c := color.New(color.FgBlue)
	c.EnableColor()
	return c
}()

// colorize wraps an expanded replacement in the highlight color.
func colorize(expanded []byte) []byte {
	return []byte(matchColor.Sprint(string(expanded)))
}
