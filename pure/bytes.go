package pure

import humanize "github.com/dustin/go-humanize"

// FormatBytes renders n with SI units, e.g. 82854982 -> "83 MB".
func FormatBytes(n uint64) string {
	return humanize.Bytes(n)
}

// FormatIBytes renders n with IEC units, e.g. 82854982 -> "79 MiB".
func FormatIBytes(n uint64) string {
	return humanize.IBytes(n)
}
