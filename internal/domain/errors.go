package domain

import "errors"

var (
	// ErrTakeNotFound signals a missing take.
	ErrTakeNotFound = errors.New("take not found")
	// ErrTakeExists signals a duplicate take registration.
	ErrTakeExists = errors.New("take already exists")
	// ErrModelUnavailable signals that an extractor's underlying model cannot run.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInferenceFailed signals a per-item extractor failure (corrupt media, bad input).
	ErrInferenceFailed = errors.New("inference failed")
	// ErrIndexEmpty signals a query against an index with no entries.
	ErrIndexEmpty = errors.New("index is empty")
	// ErrModelTagMismatch signals a query embedded under a different model than the index.
	ErrModelTagMismatch = errors.New("embedding model tag mismatch")
	// ErrVectorDimMismatch signals a vector dimension mismatch on insert.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRunNotFound signals a missing analysis run record.
	ErrRunNotFound = errors.New("analysis run not found")
	// ErrPipelineBusy signals that the analysis queue is full.
	ErrPipelineBusy = errors.New("pipeline queue is full")
	// ErrInvalidRequest signals a malformed client request.
	ErrInvalidRequest = errors.New("invalid request")
)
