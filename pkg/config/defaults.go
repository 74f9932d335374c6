package config

// Matcher defaults, matching treediff.DefaultOptions.
const (
	DefaultMinHeight = 1
	DefaultMinDice   = 0.2
	DefaultMaxSize   = 100
)

// DefaultOutputFormat is the edit-script sink's default rendering.
const DefaultOutputFormat = "text"
