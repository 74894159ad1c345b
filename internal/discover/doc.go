// Package discover enumerates plugin metadata records in a directory. Two
// strategies produce the same output shape: decoding a precomputed binary
// index file in one read, or recursively scanning the tree for descriptor
// files. An index file, when present, is authoritative for its directory and
// the scanner is never consulted there; the two are mutually exclusive per
// directory, not merged.
package discover
