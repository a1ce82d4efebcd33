package tracing

import "strings"

// ParseTraceHeader splits a host trace header of the form
// "Root=<trace id>;Parent=<entity id>;Sampled=1" into its fields. Unknown
// fields are ignored; missing fields yield zero values.
func ParseTraceHeader(header string) (root, parent string, sampled bool) {
	for _, part := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch key {
		case "Root":
			root = value
		case "Parent":
			parent = value
		case "Sampled":
			sampled = value == "1"
		}
	}

	return root, parent, sampled
}
