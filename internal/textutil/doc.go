// Package textutil provides text processing utilities for task input.
//
// The primary use cases are:
//   - Normalizing raw input into a stable form for cache keying
//   - Title-casing extracted person names
//   - Pulling hashtags out of free text
package textutil
