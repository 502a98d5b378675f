package net

import "time"

// rateLimiter counts packets per wall-clock second. Used only by a
// session's read goroutine.
type rateLimiter struct {
	limit  int // 0 = unlimited
	count  int
	second int64
}

// allow records one packet received at now and reports whether the
// connection is still within its limit.
func (l *rateLimiter) allow(now time.Time) bool {
	if l.limit <= 0 {
		return true
	}
	if sec := now.Unix(); sec != l.second {
		l.count = 0
		l.second = sec
	}
	l.count++
	return l.count <= l.limit
}
