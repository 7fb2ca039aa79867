package git

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortHashLen is the length of abbreviated commit ids.
const ShortHashLen = 7

// ResolveRevision resolves rev (HEAD, a branch, a tag, or a hash prefix) in
// the repository containing dir and returns the abbreviated commit id.
func ResolveRevision(dir, rev string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve revision %s: %w", rev, err)
	}
	return hash.String()[:ShortHashLen], nil
}

// Resolver returns a function that resolves revisions in the repository
// containing dir.
func Resolver(dir string) func(rev string) (string, error) {
	return func(rev string) (string, error) {
		return ResolveRevision(dir, rev)
	}
}
