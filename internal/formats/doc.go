// Package formats tracks the category labels recognized for package formats.
// Categories are presentation-level classification only; they carry no
// behavioral role beyond lookup and normalization.
package formats
