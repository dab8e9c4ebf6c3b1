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


// Package document retrieves remote documents and turns them into retrieval
// units.
//
// It covers the local half of ingestion: fetching the raw bytes over HTTP
// (including rewriting Google Docs links to their PDF export form),
// extracting per-page text from PDFs, and slicing the text into overlapping
// token-window chunks. Everything past this point (embedding, indexing)
// belongs to the ingestion package.
package document
