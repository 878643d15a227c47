package entity

// SessionState is the lifecycle state of a verification session.
type SessionState int

const (
	// SessionStateUnknown is an unrecognized state.
	SessionStateUnknown SessionState = iota
	// SessionStateIdle means no code has been dispatched yet.
	SessionStateIdle
	// SessionStatePending means a code was dispatched and the window is open.
	SessionStatePending
	// SessionStateConfirmed means the registrant verified and credentials were issued.
	SessionStateConfirmed
	// SessionStateExpired means the window closed without a successful confirmation.
	SessionStateExpired
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionStateIdle:
		return "IDLE"
	case SessionStatePending:
		return "PENDING"
	case SessionStateConfirmed:
		return "CONFIRMED"
	case SessionStateExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Ensure normalizes an out-of-range value to SessionStateUnknown.
func (s SessionState) Ensure() SessionState {
	switch s {
	case SessionStateIdle, SessionStatePending, SessionStateConfirmed, SessionStateExpired:
		return s
	default:
		return SessionStateUnknown
	}
}

// Terminal reports whether no further transitions are allowed.
func (s SessionState) Terminal() bool {
	return s == SessionStateConfirmed
}
