package game

// Physics holds the movement constants for the simulation.
// Distances are in pixels, speeds in pixels per tick.
type Physics struct {
	TileSize      int     `yaml:"tile_size"`      // Edge length of one map tile
	Gravity       float64 `yaml:"gravity"`        // Downward acceleration per tick
	JumpStrength  float64 `yaml:"jump_strength"`  // Vertical velocity applied on jump (negative = up)
	MoveSpeed     float64 `yaml:"move_speed"`     // Horizontal run speed
	SlideFriction float64 `yaml:"slide_friction"` // Per-tick speed bleed when no direction is held
	MaxFallSpeed  float64 `yaml:"max_fall_speed"` // Terminal falling velocity
}

// Rewards holds the reinforcement signal emitted by Step.
type Rewards struct {
	Coin          float64 `yaml:"coin"`           // Bonus when a tick collects at least one coin
	Death         float64 `yaml:"death"`          // Final reward when the player dies
	Goal          float64 `yaml:"goal"`           // Final reward when the player reaches the goal
	ProgressScale float64 `yaml:"progress_scale"` // Multiplier on newly gained distance toward the goal
	Stagnation    float64 `yaml:"stagnation"`     // Penalty when progress stalls for too long
	Overshoot     float64 `yaml:"overshoot"`      // Penalty per tick spent past the goal column
	Existence     float64 `yaml:"existence"`      // Small per-tick penalty while the episode runs
}

// Config bundles everything a Game needs besides the map itself.
type Config struct {
	Physics         Physics `yaml:"physics"`
	Rewards         Rewards `yaml:"rewards"`
	VisionRadius    int     `yaml:"vision_radius"`    // Tiles visible around the player in each direction
	StagnationLimit int     `yaml:"stagnation_limit"` // Ticks without progress before the episode is cut
}

// DefaultPhysics returns the standard movement tuning.
func DefaultPhysics() Physics {
	return Physics{
		TileSize:      32,
		Gravity:       0.5,
		JumpStrength:  -12.0,
		MoveSpeed:     3.0,
		SlideFriction: 0.10,
		MaxFallSpeed:  10.0,
	}
}

// DefaultRewards returns the standard reward shaping.
func DefaultRewards() Rewards {
	return Rewards{
		Coin:          50,
		Death:         -100,
		Goal:          500,
		ProgressScale: 10,
		Stagnation:    -50,
		Overshoot:     -5,
		Existence:     -0.05,
	}
}

// DefaultConfig returns a complete game configuration with standard tuning.
func DefaultConfig() Config {
	return Config{
		Physics:         DefaultPhysics(),
		Rewards:         DefaultRewards(),
		VisionRadius:    2,
		StagnationLimit: 175,
	}
}
