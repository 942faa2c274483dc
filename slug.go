package contentapi

import "strings"

// Slugify derives a post's public URL identifier from its title: lowercase,
// every run of characters outside [a-z0-9] collapses to a single hyphen, and
// hyphens never lead or trail. The result for a given title is deterministic;
// uniqueness across posts is the store's job, not ours. A title with no
// alphanumeric characters slugifies to the empty string, which callers must
// reject.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
