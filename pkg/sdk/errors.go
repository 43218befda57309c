package smartcut

import "github.com/cineai/smartcut/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTakeNotFound           = domain.ErrTakeNotFound
	ErrTakeExists             = domain.ErrTakeExists
	ErrRunNotFound            = domain.ErrRunNotFound
	ErrIndexEmpty             = domain.ErrIndexEmpty
	ErrModelTagMismatch       = domain.ErrModelTagMismatch
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrPipelineBusy           = domain.ErrPipelineBusy
	ErrInvalidRequest         = domain.ErrInvalidRequest
)
