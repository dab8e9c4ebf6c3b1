// Copyright 2025 Poiesic Systems
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


package document

import (
	"fmt"
	"strings"
)

// Chunker slices page text into overlapping token windows.
// Size and overlap are fixed at construction; overlap must be strictly
// smaller than size or the window would never advance.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap,
// both measured in whitespace-delimited tokens.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size %d, overlap %d", ErrInvalidChunking, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk concatenates the pages and slides a token window of the configured
// size, advancing size-overlap tokens per step. Consecutive chunks share
// exactly overlap tokens; the final chunk may be shorter. Windows that are
// empty after trimming are dropped.
func (c *Chunker) Chunk(pages []string) []string {
	tokens := strings.Fields(strings.Join(pages, "\n"))

	step := c.size - c.overlap
	var chunks []string
	for i := 0; i < len(tokens); i += step {
		end := i + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := strings.Join(tokens[i:end], " ")
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
