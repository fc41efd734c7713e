package steps

// Config holds the tunables shared by every step.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxPlanAttempts bounds how often the planner is asked for a plan
	// before planning fails.
	MaxPlanAttempts int

	// MaxRepairs bounds how many malformed payloads in a row are sent back
	// to a collaborator before the user is asked for input instead.
	MaxRepairs int

	// CalendarDir is where schedules are written.
	CalendarDir string

	// PassThreshold is the percentage a resource must score to pass an
	// examination.
	PassThreshold int

	// MaxResourceChars caps how much extracted resource text is sent to a
	// collaborator.
	MaxResourceChars int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        2048,
		Temperature:      0.7,
		MaxPlanAttempts:  3,
		MaxRepairs:       2,
		CalendarDir:      ".",
		PassThreshold:    70,
		MaxResourceChars: 24000,
	}
}
