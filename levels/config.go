package levels

import "log"

// CameraSettings mirrors the cameraSettings block the engine reads.
type CameraSettings struct {
	PostProcessing bool    `yaml:"postProcessing"`
	Zoom           float64 `yaml:"zoom"`
	FollowTarget   string  `yaml:"followTarget,omitempty"`
}

// Config describes the target the level is built for. Grid length is
// Width*Height and cells are laid out row-major.
type Config struct {
	Width     int
	Height    int
	Include   string
	Creator   string
	SceneName string
	Camera    CameraSettings

	// Logger receives warning-level notices for rejected inserts and removes.
	// Nil uses log.Default().
	Logger *log.Logger
}

// DefaultConfig returns the 30x20 target used by the generator binaries.
func DefaultConfig() Config {
	return Config{
		Width:     30,
		Height:    20,
		Include:   "levels/base.yaml",
		Creator:   "levelforge",
		SceneName: "GeneratedLevel",
		Camera: CameraSettings{
			PostProcessing: false,
			Zoom:           1,
			FollowTarget:   "player",
		},
	}
}

// Len returns the total number of cells.
func (c Config) Len() int {
	return c.Width * c.Height
}
