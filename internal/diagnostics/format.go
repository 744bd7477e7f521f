package diagnostics

import "github.com/dustin/go-humanize"

// FormatSourceSize renders a byte count the way an
// "input exceeds MaxSourceBytes" diagnostic wants to show it to a human
// ("15 MB" rather than "14682112").
func FormatSourceSize(bytes int) string {
	return humanize.Bytes(uint64(bytes))
}

// FormatLargeNumber renders a numeric-literal value with thousands
// separators for "numeric literal exceeds safe integer range"
// diagnostics, e.g. 9007199254740993 -> "9,007,199,254,740,993".
func FormatLargeNumber(value int64) string {
	return humanize.Comma(value)
}
