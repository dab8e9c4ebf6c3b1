package search

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrVectorRepositoryRequired is returned when no vector repository is provided.
	ErrVectorRepositoryRequired = errors.New("vector repository is required")

	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrQuestionEmbedding is returned when the question could not be
	// embedded after all retry attempts.
	ErrQuestionEmbedding = errors.New("failed to embed question")
)
