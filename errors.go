package answerit

import "errors"

var (
	// ErrProviderRequired is returned when no AI provider is provided.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrVectorRepositoryRequired is returned when no vector repository is provided.
	ErrVectorRepositoryRequired = errors.New("vector repository is required")

	// ErrRunLogRepositoryRequired is returned when no run log repository is provided.
	ErrRunLogRepositoryRequired = errors.New("run log repository is required")
)
