// Package errors provides structured error handling for catalog loading.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Document errors
	CodeDocumentMalformed  Code = "DOCUMENT_MALFORMED"
	CodeDocumentUnreadable Code = "DOCUMENT_UNREADABLE"

	// Label errors
	CodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"

	// Library lifecycle errors
	CodeDuplicateExtraLoad Code = "DUPLICATE_EXTRA_LOAD"
	CodeUnknownLocale      Code = "UNKNOWN_LOCALE"

	// Lookup errors
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInvalidFilter   Code = "INVALID_FILTER"
)

// Usage reports whether the code describes a caller mistake rather than a
// problem with the loaded documents.
func (c Code) Usage() bool {
	switch c {
	case CodeDuplicateExtraLoad,
		CodeUnknownLocale,
		CodeInvalidArgument,
		CodeInvalidFilter:
		return true
	default:
		return false
	}
}
