// Package xmlmerge is a small XML tree model with the structural operations
// used to patch generated native project files: lenient structural
// comparison, deduplicating clone, keyed directed merge, and path based
// element lookup and creation.
//
// Nodes always belong to exactly one Document. Operations that take nodes
// from two documents (Clone, CloneTo, MergeInto) copy source content into the
// destination document and never link the two trees together.
//
// Namespace declarations are kept as attributes on the element that declared
// them but are never copied or compared; when a document is written the
// serializer adds whatever declarations the output needs.
package xmlmerge
