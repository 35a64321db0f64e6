package cache

import "time"

// clock abstracts the time source so tests can control expiry
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (*systemClock) Now() time.Time {
	return time.Now()
}
