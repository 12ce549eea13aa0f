package security

// Decision is the validator's verdict for one command.
type Decision struct {
	Allowed bool
	Reason  string // Populated when denied
}

// Allow is the positive verdict.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a negative verdict with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
