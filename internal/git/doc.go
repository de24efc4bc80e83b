// Package git reads fixture files out of Git repositories. Repositories are
// cloned into memory, read and then released; nothing is written to disk.
package git
