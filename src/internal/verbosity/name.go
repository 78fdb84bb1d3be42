package verbosity

import "strings"

// Separator delimits the segments of a component name.
const Separator = "."

// SplitName splits a component name into its segments, most significant first.
// The empty name is the root and has no segments. Empty gaps between
// separators are kept as empty segments.
func SplitName(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, Separator)
}

// JoinName builds the full name of child below parent.
// A root parent yields the child name unchanged.
func JoinName(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + Separator + child
}
