package xmlmerge

import (
	stderrors "errors"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

var (
	// ErrInvalidPath reports a malformed slash separated element path.
	ErrInvalidPath = stderrors.New("invalid element path")
	// ErrKindMismatch reports an operation across nodes of different kinds.
	ErrKindMismatch = stderrors.New("node kinds differ")
	// ErrNoOwner reports a node that does not belong to a document.
	ErrNoOwner = stderrors.New("node has no owner document")
	// ErrCrossDocument reports linking a node into a tree of another document.
	ErrCrossDocument = stderrors.New("node belongs to a different document")
	// ErrNoRoot reports a lookup on a document without a root element.
	ErrNoRoot = stderrors.New("document has no root element")
	// ErrConflict reports two contributions disagreeing under strict merge.
	ErrConflict = stderrors.New("merge conflict")
)

func structuralError(cause error, message string) *errors.ErrorBuilder {
	return errors.StructuralError(message).WithCause(cause)
}

func conflictError(message string) *errors.ErrorBuilder {
	return errors.MergeConflictError(message).WithCause(ErrConflict)
}
