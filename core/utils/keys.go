package utils

import "strings"

// Delimiter separates path segments inside an object key.
const Delimiter = "/"

// EnsureTrailingSlash returns key with a single trailing delimiter appended
// when it does not already end with one.
func EnsureTrailingSlash(key string) string {
	if strings.HasSuffix(key, Delimiter) {
		return key
	}
	return key + Delimiter
}

// NormalizePrefix aligns a listing prefix to a folder boundary.
// An empty prefix means the bucket root and is returned unchanged.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return EnsureTrailingSlash(prefix)
}

// BaseName returns the last non-empty segment of key, ignoring trailing
// delimiters. "photos/2024/" yields "2024" and "a/b.txt" yields "b.txt".
func BaseName(key string) string {
	trimmed := strings.TrimRight(key, Delimiter)
	if i := strings.LastIndex(trimmed, Delimiter); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// IsFolderMarker reports whether key is a zero-byte folder marker key.
func IsFolderMarker(key string) bool {
	return strings.HasSuffix(key, Delimiter)
}
