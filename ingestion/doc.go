// Package ingestion turns a source document into indexed vector entries.
//
// The pipeline fetches the document, extracts its text, splits it into
// overlapping token chunks, embeds the chunks through a cache-aware batch
// embedder, and uploads the resulting entries to a vector repository in
// concurrent batches. Individual embedding failures degrade the index
// rather than failing the run; fetch, extraction, and upload failures are
// hard errors and leave the document unmarked so it is retried next time.
package ingestion
