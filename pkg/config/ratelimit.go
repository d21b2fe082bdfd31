package config

import "time"

// RateLimitConfig contains rate limiting settings. Rates are in requests
// per second; capacities are the burst size.
type RateLimitConfig struct {
	Enabled bool `env:"RATELIMIT_ENABLED" env-default:"true"`

	GlobalEnabled    bool    `env:"RATELIMIT_GLOBAL_ENABLED" env-default:"true"`
	GlobalCapacity   int     `env:"RATELIMIT_GLOBAL_CAPACITY" env-default:"1000"`
	GlobalRefillRate float64 `env:"RATELIMIT_GLOBAL_REFILL_RATE" env-default:"16.67"`

	PerIPEnabled    bool    `env:"RATELIMIT_PER_IP_ENABLED" env-default:"true"`
	PerIPCapacity   int     `env:"RATELIMIT_PER_IP_CAPACITY" env-default:"100"`
	PerIPRefillRate float64 `env:"RATELIMIT_PER_IP_REFILL_RATE" env-default:"1.67"`

	PerUserEnabled    bool    `env:"RATELIMIT_PER_USER_ENABLED" env-default:"true"`
	PerUserCapacity   int     `env:"RATELIMIT_PER_USER_CAPACITY" env-default:"200"`
	PerUserRefillRate float64 `env:"RATELIMIT_PER_USER_REFILL_RATE" env-default:"3.33"`

	BucketTTL      time.Duration `env:"RATELIMIT_BUCKET_TTL" env-default:"1h"`
	IncludeHeaders bool          `env:"RATELIMIT_INCLUDE_HEADERS" env-default:"true"`
}

func (r RateLimitConfig) validate() ValidationErrors {
	if !r.Enabled {
		return nil
	}
	var errs []*ValidationError
	if r.GlobalEnabled {
		errs = append(errs,
			RequirePositive("RATELIMIT_GLOBAL_CAPACITY", r.GlobalCapacity),
			RequirePositiveRate("RATELIMIT_GLOBAL_REFILL_RATE", r.GlobalRefillRate))
	}
	if r.PerIPEnabled {
		errs = append(errs,
			RequirePositive("RATELIMIT_PER_IP_CAPACITY", r.PerIPCapacity),
			RequirePositiveRate("RATELIMIT_PER_IP_REFILL_RATE", r.PerIPRefillRate))
	}
	if r.PerUserEnabled {
		errs = append(errs,
			RequirePositive("RATELIMIT_PER_USER_CAPACITY", r.PerUserCapacity),
			RequirePositiveRate("RATELIMIT_PER_USER_REFILL_RATE", r.PerUserRefillRate))
	}
	return CollectErrors(errs...)
}
