package core

// RuntimeConfig contains configuration passed to a round at initialization.
// Rounds use this to adapt to screen size and for deterministic spawning.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Animation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic spawn positions
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a round.
// Returned by Round.State() to communicate status to the platform.
type GameState struct {
	Moves    int  // Completed drops
	Merges   int  // Matches resolved
	Live     int  // Cars still in play
	GameOver bool // Whether the escort has arrived
}
