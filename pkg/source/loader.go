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

package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LargeFileThreshold is the size above which the pipeline warns that the
// whole input must be resident in memory.
const LargeFileThreshold = 1 << 20

// 🎯 InvalidPathError reports a file source that does not exist. It is
// non-fatal: the source is skipped and its siblings continue.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path: %s", e.Path)
}

// 📦 Loaded is one source materialized as an immutable byte view. File
// sources are memory-mapped; Data must not be touched after Release.
type Loaded struct {
	Source Source
	Data   []byte
	mapped bool
}

// Release unmaps a mapped view. It must run before any write-back to the
// same path: some platforms refuse to rename over a file with a user-mapped
// section open.
func (l *Loaded) Release() error {
	if !l.mapped {
		return nil
	}
	l.mapped = false
	data := l.Data
	l.Data = nil
	if err := munmap(data); err != nil {
		return errors.Errorf("unmapping %s: %w", l.Source.Display(), err)
	}
	return nil
}

// 🏭 Loader materializes sources. Stdin is injected so tests can substitute
// an arbitrary reader.
type Loader struct {
	Stdin io.Reader
}

func NewLoader(stdin io.Reader) *Loader {
	return &Loader{Stdin: stdin}
}

// Load maps a file source read-only, or copies standard input into an owned
// buffer (there is no backing file to map).
func (ld *Loader) Load(ctx context.Context, src Source) (*Loaded, error) {
	if src.IsStdin() {
		data, err := io.ReadAll(ld.Stdin)
		if err != nil {
			return nil, errors.Errorf("reading stdin: %w", err)
		}
		return &Loaded{Source: src, Data: data}, nil
	}

	if _, err := os.Stat(src.Path()); os.IsNotExist(err) {
		return nil, &InvalidPathError{Path: src.Path()}
	}

	f, err := os.Open(src.Path())
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", src.Path(), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("statting %s: %w", src.Path(), err)
	}

	// Mapping zero bytes is an error on some platforms.
	if info.Size() == 0 {
		return &Loaded{Source: src, Data: []byte{}}, nil
	}

	data, err := mmapFile(f, int(info.Size()))
	if err != nil {
		return nil, errors.Errorf("mapping %s: %w", src.Path(), err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", src.Display()).
		Int64("size", info.Size()).
		Msg("mapped source")

	return &Loaded{Source: src, Data: data, mapped: true}, nil
}
