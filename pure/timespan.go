package pure

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

func NewTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}

// SpanAround is the span [t-epsilon, t+epsilon].
func SpanAround(t time.Time, epsilon time.Duration) TimeSpan {
	return timespan.BetweenTimes(t.Add(-epsilon), t.Add(epsilon))
}
