package utils

import "strings"

// Mask keeps the first start and last end runes of s and replaces the middle
// with "***". Strings too short to hide anything are returned unchanged and
// empty strings render as "-".
func Mask(s string, start, end int) string {
	if s == "" {
		return "-"
	}
	runes := []rune(s)
	if len(runes) <= start+end {
		return s
	}
	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString("***")
	b.WriteString(string(runes[len(runes)-end:]))
	return b.String()
}

func MaskName(s string) string     { return Mask(s, 1, 0) }
func MaskPhone(s string) string    { return Mask(s, 3, 3) }
func MaskIDNumber(s string) string { return Mask(s, 4, 4) }
func MaskBankCard(s string) string { return Mask(s, 4, 4) }
