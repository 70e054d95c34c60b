// Package pure holds small stateless helpers used around governed functions:
// byte formatting, checksums, ids, slice utilities and time spans.
package pure
