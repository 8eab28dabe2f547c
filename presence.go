package jsmodel

// Presence is the bit flag recorded per field when an instance is constructed.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Has reports whether the flag is set for path.
func (pm PresenceMap) Has(path string, f Presence) bool { return pm[path]&f != 0 }

// Seen returns the pointers that appeared in the input, in no particular order.
func (pm PresenceMap) Seen() []string {
	out := make([]string, 0, len(pm))
	for k, v := range pm {
		if v&PresenceSeen != 0 {
			out = append(out, k)
		}
	}
	return out
}
