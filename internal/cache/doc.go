// Package cache loads pre-recorded dialogue audio from disk and keeps the
// decoded clips in memory for the lifetime of a loader. Loads are
// asynchronous: Load hands back a Pending future that resolves once the file
// has been read and decoded.
package cache
