package draft4cover

import "strings"

// Draft4URI is the meta-schema URI of draft-4.
const Draft4URI = "http://json-schema.org/draft-04/schema#"

// DraftOf returns the schema's "$schema" URI, if it declares one.
func DraftOf(s Schema) (string, bool) {
	uri, ok := s["$schema"].(string)
	return uri, ok
}

// IsDraft4 reports whether uri names the draft-4 meta-schema. The scheme, a
// trailing '#' and surrounding space are not significant.
func IsDraft4(uri string) bool {
	return normalizeDraftURI(uri) == normalizeDraftURI(Draft4URI)
}

func normalizeDraftURI(uri string) string {
	u := strings.TrimSpace(uri)
	u = strings.TrimSuffix(u, "#")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return u
}
