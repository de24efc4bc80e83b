// Package coordinator runs the background catalog refresh loop.
package coordinator
