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
	"fmt"
	"unicode"
	"unicode/utf8"
)

// 🎯 InvalidCaptureError reports a replacement template where a numbered
// capture reference runs straight into an identifier character, making it
// ambiguous whether the user means group `$N` followed by text or a named
// group `$Nident`.
type InvalidCaptureError struct {
	Number string // the digit run after `$`
	Ident  string // the identifier run that follows the digits
}

func (e *InvalidCaptureError) Error() string {
	return fmt.Sprintf(
		"invalid replacement capture `$%s%s`: ambiguous between the group `$%s` followed by the text `%s` and a group named `%s%s`; use `${%s}%s` to disambiguate",
		e.Number, e.Ident, e.Number, e.Ident, e.Number, e.Ident, e.Number, e.Ident,
	)
}

// ValidateCaptures rejects templates containing a `$` followed by digits and
// then immediately an alphabetic or underscore character. Every other `$`
// usage is accepted: `${ident}`, `$ident`, `$N` followed by punctuation or end
// of template, and a trailing `$`. Runs once per construction, never per match.
func ValidateCaptures(template string) error {
	for i := 0; i < len(template); i++ {
		if template[i] != '$' {
			continue
		}

		// Collect the digit run after the dollar.
		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}
		if j == i+1 {
			continue // no digits, not a numbered reference
		}

		r, _ := utf8.DecodeRuneInString(template[j:])
		if r == '_' || unicode.IsLetter(r) {
			return &InvalidCaptureError{
				Number: template[i+1 : j],
				Ident:  identRun(template[j:]),
			}
		}

		i = j - 1
	}
	return nil
}

// identRun returns the leading run of identifier characters in s.
func identRun(s string) string {
	end := len(s)
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			end = i
			break
		}
	}
	return s[:end]
}
