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
Package replacer implements the pattern matching and substitution engines of resub.

	              +--------------+
	              |   Replacer   |
	              |  (interface) |
	              +------+-------+
	                     |
	         +-----------+-----------+
	         |                       |
	  +------+------+         +-----+-------+
	  |    Regex    |         |    Fancy    |
	  | (linear, B) |         | (backtrack) |
	  +-------------+         +-------------+

🎯 Purpose:
- Compiles a search pattern and replacement template into an engine
- Applies the engine to a byte buffer, producing replaced output
- Validates replacement templates before compilation
- Supports literal patterns, flag strings, and replacement ceilings

🔄 Flow:
1. Caller picks a dialect and constructs a replacer from pattern + template + flags
2. The template is validated (and unescaped) once, at construction
3. Replace walks matches left-to-right, interleaving gaps, colors, and expansions
4. A nil result with ok=false signals "no match" so the caller can skip write-back

⚡ Key Responsibilities:
- Capture-reference validation (reject ambiguous `$1a` shapes)
- Flag string parsing (c/i/e/s/w, later overrides earlier)
- Bounded replacement (ceiling N stops after the N-th match)
- Match colorization for preview output

🤝 Interfaces:
- Replacer: the single capability both dialects implement

📝 Design Philosophy:
The two engines keep their own failure contracts. RegexReplacer matches raw
bytes in linear time and cannot fail after compilation. FancyReplacer matches
decoded text with backtracking and lookaround, so a runtime guard can abort an
entire Replace call; that surfaces as an error rather than being folded into
the no-match signal.
*/
package replacer
