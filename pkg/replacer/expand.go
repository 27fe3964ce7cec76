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

// captureLookup resolves a capture reference for the current match. name is
// either a decimal group number or a group name; an unknown or unmatched
// group resolves to the empty string.
type captureLookup func(name string) string

// expandTemplate appends template to dst, substituting capture references via
// lookup. The grammar follows the engines' native one: `$name` takes the
// longest run of word characters, `${name}` is explicit, `$$` is a literal
// dollar, and any other `$` is copied through verbatim.
func expandTemplate(dst []byte, template string, lookup captureLookup) []byte {
	for i := 0; i < len(template); i++ {
		if template[i] != '$' || i+1 >= len(template) {
			dst = append(dst, template[i])
			continue
		}

		switch {
		case template[i+1] == '$':
			dst = append(dst, '$')
			i++
		case template[i+1] == '{':
			end := i + 2
			for end < len(template) && template[end] != '}' {
				end++
			}
			if end == len(template) {
				dst = append(dst, template[i]) // unterminated brace, literal `$`
				continue
			}
			if end == i+2 {
				// `${}` names no group; keep it as literal text rather than
				// resolving the empty name (which would hit the unnamed
				// whole-match group in the byte-oriented dialect).
				dst = append(dst, "${}"...)
				i = end
				continue
			}
			dst = append(dst, lookup(template[i+2:end])...)
			i = end
		case isWordByte(template[i+1]):
			end := i + 1
			for end < len(template) && isWordByte(template[end]) {
				end++
			}
			dst = append(dst, lookup(template[i+1:end])...)
			i = end - 1
		default:
			dst = append(dst, '$')
		}
	}
	return dst
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// allDigits reports whether name is a plain decimal group number.
func allDigits(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}
