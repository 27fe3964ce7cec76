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

/*
Package pipeline fans the substitution work out across all sources and routes
the results to preview output or atomic per-file write-back.

	 sources --> +----------+     +----------+     +-----------+
	             |  Loader  | --> | Replacer | --> |  Results  |
	             | (mmap)   |     | (apply)  |     | (ordered) |
	             +----------+     +----------+     +-----+-----+
	                  parallel, per source               |
	                                          +----------+----------+
	                                          |                     |
	                                    +-----+-----+         +-----+-----+
	                                    |  Preview  |         | WriteBack |
	                                    |  (stdout) |         | (tmp+ren) |
	                                    +-----------+         +-----------+

🎯 Purpose:
- Runs load + apply concurrently over a worker pool sized to the hardware
- Preserves original source order in the aggregated results
- Isolates per-source failures so one bad file never blocks a good one
- Persists changed files crash-safely via temp-file-then-rename

🔄 Flow:
1. Each source is mapped (or read, for stdin) into an immutable view
2. The replacer is applied; the map is released as soon as output exists
3. Results land in an index-addressed slice, keeping source order
4. Preview writes results to one stream; write-back replaces each file

⚡ Key Responsibilities:
- Worker-pool fan-out with no shared mutable state between sources
- Skip accounting for missing, unreadable, or match-failed sources
- Aggregating write-back failures into a single report

📝 Design Philosophy:
Write-back failures are collected, not short-circuited: silent partial disk
mutation is unacceptable, so every remaining file is still attempted and the
aggregate error names every failing path with its cause.
*/
package pipeline
