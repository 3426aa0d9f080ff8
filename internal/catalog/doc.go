// Package catalog owns the durable, append-only index of known items and its
// CSV persistence. All pipeline stages read the catalog; only the date
// resolution pass mutates it.
package catalog
