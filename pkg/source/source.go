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

// Package source models resub's inputs (files and standard input) and loads
// them into immutable byte views, memory-mapped where possible.
package source

// Kind distinguishes the two input variants.
type Kind int

const (
	KindStdin Kind = iota
	KindFile
)

// 🎯 Source identifies one input. It is read-only after creation.
type Source struct {
	kind Kind
	path string
}

// File returns a file-backed source.
func File(path string) Source {
	return Source{kind: KindFile, path: path}
}

// Stdin returns the standard-input source.
func Stdin() Source {
	return Source{kind: KindStdin}
}

// FromPaths builds one file source per path, in order.
func FromPaths(paths []string) []Source {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, File(p))
	}
	return sources
}

// StdinOnly returns the source list for an invocation with no file arguments.
func StdinOnly() []Source {
	return []Source{Stdin()}
}

func (s Source) Kind() Kind    { return s.kind }
func (s Source) IsStdin() bool { return s.kind == KindStdin }
func (s Source) Path() string  { return s.path }

// Display returns the name used in separators and diagnostics.
func (s Source) Display() string {
	if s.kind == KindStdin {
		return "STDIN"
	}
	return s.path
}
