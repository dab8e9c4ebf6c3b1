package pinecone

import "errors"

var (
	// ErrHostRequired is returned when no index host is provided.
	ErrHostRequired = errors.New("pinecone index host required")

	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("pinecone API key required")
)
