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


// Package storage provides the storage abstraction layer for answerit.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. Two backends exist: storage/badger, an
// embedded BadgerDB store that serves both the vector index and the run-log
// store (useful for local deployments and tests), and storage/pinecone, a
// client for a hosted Pinecone vector index.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable multiple storage backend implementations:
//
//	repo, err := badger.NewVectorRepository(backend)  // returns storage.VectorRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
package storage
