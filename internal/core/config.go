package core

// RuntimeConfig contains the host loop parameters passed to a session at startup.
type RuntimeConfig struct {
	ViewportW int // Viewport width in screen cells (pixels for a graphical host)
	ViewportH int // Viewport height in screen cells
	UPS       int // Simulation updates per second (default 60)
	FPS       int // Render frames per second (default 60)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ViewportW: 80,
		ViewportH: 24,
		UPS:       60,
		FPS:       60,
	}
}

// TickSeconds returns the fixed simulation step in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.UPS <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.UPS)
}
