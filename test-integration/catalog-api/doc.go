// Package integration runs the catalog server end to end against file and
// Git fixture sources, covering loading, reloading and the marketplace
// filter over HTTP.
package integration
