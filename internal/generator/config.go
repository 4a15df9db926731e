package generator

// Config drives the synthetic transaction factory.
type Config struct {
	// Seed fixes the random sequence. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns a clock-seeded configuration.
func DefaultConfig() Config {
	return Config{}
}
