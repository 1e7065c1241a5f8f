package docsight

import "errors"

var (
	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("docsight: unsupported document format")

	// ErrDocumentUnreadable is returned when a document yields no extractable
	// text runs, or the extracted text is dominated by garbage glyphs.
	ErrDocumentUnreadable = errors.New("docsight: no extractable text runs")

	// ErrNoValidDocuments is returned when every document in a batch failed.
	// This is the only per-run fatal error; single-document failures are
	// logged and skipped.
	ErrNoValidDocuments = errors.New("docsight: no valid input documents")

	// ErrEmptyInput is returned for an analysis request with no documents.
	ErrEmptyInput = errors.New("docsight: empty input")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("docsight: invalid configuration")

	// ErrRunNotFound is returned when a stored run ID does not exist.
	ErrRunNotFound = errors.New("docsight: run not found")

	// ErrStoreDisabled is returned when a persistence operation is requested
	// but the engine was opened without a result store.
	ErrStoreDisabled = errors.New("docsight: result store is disabled")

	// ErrStoreClosed is returned when operating on a closed store.
	ErrStoreClosed = errors.New("docsight: store is closed")
)
