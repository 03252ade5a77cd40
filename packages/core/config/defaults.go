package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30000, // 30 seconds
		MaxRedirects: 10,
		Proxy:        "",
		Headers:      nil,
		RateLimit:    0,
	}
}
