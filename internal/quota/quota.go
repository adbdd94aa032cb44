// Package quota decides whether a billable request should be serviced, given
// the user's usage for the current day.
package quota

// DefaultFreeDailyLimit is the number of free questions a non-premium user
// gets per calendar day.
const DefaultFreeDailyLimit = 3

// Policy is the entitlement rule: premium users are unlimited, everyone else
// gets FreeDailyLimit questions per day.
type Policy struct {
	FreeDailyLimit int
}

// NewPolicy returns a Policy with the given limit, falling back to the
// default when the limit is not positive.
func NewPolicy(limit int) Policy {
	if limit <= 0 {
		limit = DefaultFreeDailyLimit
	}
	return Policy{FreeDailyLimit: limit}
}

// Allowed reports whether a request with the given daily count and premium
// flag should be serviced. Pure function of its inputs.
func (p Policy) Allowed(count int, premium bool) bool {
	if premium {
		return true
	}
	return count < p.FreeDailyLimit
}
