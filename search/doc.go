// Package search answers similarity queries against the vector index.
//
// A Searcher embeds the incoming question and asks the vector repository
// for the topK most similar chunk texts. Question embeddings go through
// the shared embedding cache, so asking the same question twice only
// calls the embedding API once.
package search
