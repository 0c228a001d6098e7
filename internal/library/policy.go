package library

import "strings"

// FailurePolicy picks what happens to optimistic local state when a
// mutation's network call fails. The product default is Retain: the UI
// trusts the user's last action and the next full Load reconciles any
// true inconsistency.
type FailurePolicy int

const (
	Retain FailurePolicy = iota
	Rollback
	Reload
)

// ParseFailurePolicy converts a config string to a FailurePolicy,
// defaulting to Retain.
func ParseFailurePolicy(s string) FailurePolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rollback":
		return Rollback
	case "reload":
		return Reload
	default:
		return Retain
	}
}

// String returns the config spelling of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case Rollback:
		return "rollback"
	case Reload:
		return "reload"
	default:
		return "retain"
	}
}
