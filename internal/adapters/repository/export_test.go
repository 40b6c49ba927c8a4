package repository

import "time"

// ValidIdentifier exposes validIdentifier to the external test package.
var ValidIdentifier = validIdentifier

// ConnectTimeout reports the connect timeout opts resolve to.
func ConnectTimeout(opts ...Option) time.Duration {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s.connectTimeout
}
