package engine

import "strings"

// Flags are independent resolution modifiers combined with bitwise or.
type Flags uint8

const (
	// Optional suppresses the not-found failure and yields nil instead.
	Optional Flags = 1 << iota
	// SkipSelf begins the walk at the parent scope, excluding the current one.
	SkipSelf
	// Self restricts the walk to the current scope, with no ancestor fallback.
	Self
	// Host stops the ancestor walk at the nearest component host boundary.
	Host
)

// Default requests a plain local-then-ancestor-then-module lookup.
const Default Flags = 0

func (f Flags) Has(mask Flags) bool {
	return f&mask != 0
}

func (f Flags) String() string {
	if f == Default {
		return "default"
	}

	var parts []string
	if f.Has(Optional) {
		parts = append(parts, "optional")
	}
	if f.Has(SkipSelf) {
		parts = append(parts, "skip-self")
	}
	if f.Has(Self) {
		parts = append(parts, "self")
	}
	if f.Has(Host) {
		parts = append(parts, "host")
	}
	return strings.Join(parts, "|")
}
