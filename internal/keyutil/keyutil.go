// Package keyutil decodes S3 notification object keys and splits keys into
// base name and extension. Pure string manipulation, no I/O.
package keyutil

import (
	"fmt"
	"net/url"
	"strings"
)

// DecodeObjectKey recovers the true storage key from the key carried in an
// S3 event notification. Notification keys are percent-encoded, with a
// literal '+' standing for a space. The '+' substitution must happen before
// percent-decoding: decoding first would turn %2B sequences into '+'
// characters that never stood for spaces.
func DecodeObjectKey(raw string) (string, error) {
	spaced := strings.ReplaceAll(raw, "+", " ")
	key, err := url.QueryUnescape(spaced)
	if err != nil {
		return "", fmt.Errorf("decode object key %q: %w", raw, err)
	}
	return key, nil
}

// SplitExt splits a key at its last '.' into base name and extension.
// A key without a dot is returned unchanged with an empty extension.
// For any key containing a dot, base + "." + ext reconstructs the input.
func SplitExt(key string) (base, ext string) {
	i := strings.LastIndex(key, ".")
	if i < 0 {
		return key, ""
	}
	return key[:i], key[i+1:]
}
