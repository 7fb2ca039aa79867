// Package git resolves revisions of the host project's repository, used to
// stamp builds with the commit they were made from.
package git
