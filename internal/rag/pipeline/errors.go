package pipeline

import "fmt"

// ProcessingError marks a failure while loading or splitting a document.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("error processing document: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// IndexError marks a failure while building the document's vector index.
type IndexError struct {
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("error creating vector store: %v", e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// QueryError marks a failure during retrieval or answer generation.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("error answering query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
