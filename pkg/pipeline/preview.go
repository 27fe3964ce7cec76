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
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"
)

// WritePreview writes changed results to w in source order. When the batch
// held more than one source, each result is prefixed with a separator line
// naming it. Skipped and unmatched sources produce no output.
func WritePreview(w io.Writer, results []Result) error {
	separators := len(results) > 1

	for _, res := range results {
		if !res.Changed {
			continue
		}
		if separators {
			if _, err := fmt.Fprintf(w, "----- %s -----\n", res.Source.Display()); err != nil {
				return errors.Errorf("writing preview separator: %w", err)
			}
		}
		if _, err := w.Write(res.Output); err != nil {
			return errors.Errorf("writing preview for %s: %w", res.Source.Display(), err)
		}
	}
	return nil
}
