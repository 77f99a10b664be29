package utils

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases the input and collapses every run of non
// alphanumeric characters into a single hyphen. "My First Post" becomes
// "my-first-post". Non-ASCII letters are dropped rather than
// transliterated.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// PostSlug derives the slug for a post title: the slugified title plus a
// unix-seconds suffix so that repeated titles remain unique without a
// uniqueness probe against the database.
func PostSlug(title string) string {
	return Slugify(title) + "-" + strconv.FormatInt(time.Now().UTC().Unix(), 10)
}
