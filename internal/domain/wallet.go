package domain

import "strings"

// Wallet addresses follow the hex account format: 0x followed by 40 hex
// digits. Checksum casing is not significant anywhere in this system, so
// addresses are normalized to lowercase at the boundary and compared
// case-insensitively.

// ValidWallet reports whether s is a syntactically valid wallet address.
func ValidWallet(s string) bool {
	if len(s) != 42 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeWallet lowercases an address so stored and presented forms compare
// byte-for-byte.
func NormalizeWallet(s string) string {
	return strings.ToLower(s)
}

// SameWallet compares two addresses ignoring case.
func SameWallet(a, b string) bool {
	return strings.EqualFold(a, b)
}
