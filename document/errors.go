package document

import "errors"

var (
	// ErrInvalidChunking is returned when the chunker is configured with an
	// overlap that is not strictly smaller than the chunk size.
	ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

	// ErrNoText is returned when a fetched document contains no extractable text.
	ErrNoText = errors.New("no text content found in document")
)
