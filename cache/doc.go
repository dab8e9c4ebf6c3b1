// Package cache provides in-memory memoization for the request pipeline:
// per-text embedding vectors and per-document ingestion status, both keyed
// by deterministic content fingerprints.
package cache
