package memory

import "strings"

// NormalizePath canonicalizes a hierarchical tag path: lowercased, trimmed,
// collapsed multi-slashes, and without leading or trailing slashes, so
// "Project/ /Foo//Bar/" and "project/foo/bar" resolve to the same tag.
func NormalizePath(path string) string {
	segments := strings.Split(strings.ToLower(path), "/")
	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}

// LeafName returns the last segment of a normalized tag path, used as a
// tag's display Name.
func LeafName(normalizedPath string) string {
	segments := strings.Split(normalizedPath, "/")
	return segments[len(segments)-1]
}
