package model

import "time"

// MemberActivity records the most recent contribution of each kind found for
// a member within the queried windows. A nil timestamp means no activity of
// that kind was found in any window queried, not that none ever existed.
type MemberActivity struct {
	Login       string
	LastPRAt    *time.Time
	LastIssueAt *time.Time
	LastCommit  *time.Time
}

// HasAny reports whether any contribution kind was found.
func (a MemberActivity) HasAny() bool {
	return a.LastPRAt != nil || a.LastIssueAt != nil || a.LastCommit != nil
}

// Timestamps returns the non-absent contribution timestamps.
func (a MemberActivity) Timestamps() []time.Time {
	var ts []time.Time
	for _, p := range []*time.Time{a.LastPRAt, a.LastIssueAt, a.LastCommit} {
		if p != nil {
			ts = append(ts, *p)
		}
	}
	return ts
}
