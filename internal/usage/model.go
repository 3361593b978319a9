package usage

import (
	"errors"
	"time"
)

// ErrLimitReached indicates the user exceeded their usage limit.
var ErrLimitReached = errors.New("limit reached")

// Usage represents a user's plan consumption snapshot.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// Remaining is the number of units left in the current period.
func (u Usage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}

// Policy defines the quota granted to every identity.
type Policy struct {
	Plan   string
	Limit  int
	Period time.Duration
}

const (
	defaultPlan   = "Starter"
	defaultLimit  = 10
	defaultPeriod = 7 * 24 * time.Hour
)

// DefaultPolicy is a weekly quota of ten persisted analyses.
func DefaultPolicy() Policy {
	return Policy{Plan: defaultPlan, Limit: defaultLimit, Period: defaultPeriod}
}

// WeeklyPolicy returns the default plan with the given weekly limit.
func WeeklyPolicy(limit int) Policy {
	p := DefaultPolicy()
	if limit > 0 {
		p.Limit = limit
	}
	return p
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.Plan == "" {
		p.Plan = d.Plan
	}
	if p.Limit <= 0 {
		p.Limit = d.Limit
	}
	if p.Period <= 0 {
		p.Period = d.Period
	}
	return p
}

func (p Policy) fresh(now time.Time) Usage {
	return Usage{Plan: p.Plan, Limit: p.Limit, ResetsAt: now.Add(p.Period)}
}

// roll starts a new period when the current one has ended.
func (p Policy) roll(u Usage, now time.Time) (Usage, bool) {
	if now.Before(u.ResetsAt) {
		return u, false
	}
	u.Used = 0
	u.ResetsAt = now.Add(p.Period)
	return u, true
}
