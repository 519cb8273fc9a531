package activity

import "strings"

/* The upstream API has no private metadata, so a marker appended to the
 * description is the only way to remember that an activity was handled.
 * IsProcessed and MarkProcessed are the only places that know the scheme.
 */

// IsProcessed reports whether the description carries the marker
func IsProcessed(description, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(description, marker)
}

// MarkProcessed returns description with the marker appended once
func MarkProcessed(description, marker string) string {
	if IsProcessed(description, marker) {
		return description
	}
	return AppendLine(description, marker)
}

// AppendLine joins text onto description on a new line, skipping empty parts
func AppendLine(description, text string) string {
	switch {
	case text == "":
		return description
	case description == "":
		return text
	default:
		return description + "\n" + text
	}
}
