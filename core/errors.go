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


package core

import "errors"

// Error taxonomy for the request pipeline. Errors are classified by wrapping
// one of these sentinels; callers use errors.Is to map them to a response.
var (
	// ErrValidation indicates caller-correctable input: an empty or malformed
	// document reference, or an empty question list.
	ErrValidation = errors.New("invalid request")

	// ErrFetch indicates the document could not be retrieved from its source.
	ErrFetch = errors.New("document fetch failed")

	// ErrIngestion indicates document processing failed after the input was
	// superficially valid (extraction failure, zero chunks).
	ErrIngestion = errors.New("document ingestion failed")

	// ErrEmptyDocument indicates the document yielded no text chunks.
	ErrEmptyDocument = errors.New("document contains no text")

	// ErrIndexWrite indicates a vector index write failed. Index writes are
	// not retried; the failure aborts the ingesting request.
	ErrIndexWrite = errors.New("vector index write failed")

	// ErrGeneration indicates the chat model call failed after retries.
	ErrGeneration = errors.New("answer generation failed")
)
