// Package sync decides when the served catalog snapshot is out of date.
//
// Every fixture source can report a content hash without a full load. The
// DataChangeDetector compares those hashes with the ones recorded in the
// loaded snapshot, and the Manager turns the comparison into a Reason.
// The coordinator subpackage runs the check on a jittered ticker and
// reloads the catalog when a Reason asks for it.
package sync
