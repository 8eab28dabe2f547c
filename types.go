package jsmodel

// UnknownPolicy controls how unknown keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys alongside the declared fields.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownStrict:
		return "forbid"
	case UnknownStrip:
		return "ignore"
	case UnknownPassthrough:
		return "allow"
	}
	return "unknown"
}
