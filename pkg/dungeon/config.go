package dungeon

import (
	"fmt"
	"os"

	"github.com/rogue3/dungeonforge/pkg/passes"
	"gopkg.in/yaml.v3"
)

// MaxCells bounds width*height for any config. Derived from the largest
// size named by the testable-properties size matrix (200x150), with
// headroom to 240x180 before rejecting.
const MaxCells = 240 * 180

// Algorithm selects which generator pipeline composes a run.
type Algorithm string

const (
	AlgorithmBSP      Algorithm = "bsp"
	AlgorithmCellular Algorithm = "cellular"
	AlgorithmHybrid   Algorithm = "hybrid"
)

// Config specifies every parameter a generation run needs. Seed may be
// left nil, in which case Generate uses the numeric seed 0 (see
// resolveSeed in generate.go); an empty string seed is rejected.
type Config struct {
	Width     int       `yaml:"width" json:"width"`
	Height    int       `yaml:"height" json:"height"`
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`

	// Seed is an integer or string; string seeds hash via FNV-1a into
	// the numeric seed that actually drives generation.
	Seed any `yaml:"seed" json:"seed"`

	RoomCount     int    `yaml:"roomCount" json:"roomCount"`
	RoomSizeRange [2]int `yaml:"roomSizeRange" json:"roomSizeRange"`

	BSP      BSPSettings      `yaml:"bsp" json:"bsp"`
	Cellular CellularSettings `yaml:"cellular" json:"cellular"`
	Doors    DoorSettings     `yaml:"doors" json:"doors"`

	Trace     bool `yaml:"trace" json:"trace"`
	Snapshots bool `yaml:"snapshots" json:"snapshots"`
}

// BSPSettings is the bsp-algorithm sub-config.
type BSPSettings struct {
	MinRoomSize         int                 `yaml:"minRoomSize" json:"minRoomSize"`
	MaxRoomSize         int                 `yaml:"maxRoomSize" json:"maxRoomSize"`
	SplitRatioMin       float64             `yaml:"splitRatioMin" json:"splitRatioMin"`
	SplitRatioMax       float64             `yaml:"splitRatioMax" json:"splitRatioMax"`
	RoomPadding         int                 `yaml:"roomPadding" json:"roomPadding"`
	CorridorWidth       int                 `yaml:"corridorWidth" json:"corridorWidth"`
	MaxDepth            int                 `yaml:"maxDepth" json:"maxDepth"`
	RoomPlacementChance float64             `yaml:"roomPlacementChance" json:"roomPlacementChance"`
	CorridorStyle       passes.CarverStyle  `yaml:"corridorStyle" json:"corridorStyle"`
	CorridorCrossing    passes.CrossingPolicy `yaml:"corridorCrossing" json:"corridorCrossing"`
}

// CellularSettings is the cellular-algorithm sub-config.
type CellularSettings struct {
	InitialFillRatio  float64 `yaml:"initialFillRatio" json:"initialFillRatio"`
	Iterations        int     `yaml:"iterations" json:"iterations"`
	BirthLimit        int     `yaml:"birthLimit" json:"birthLimit"`
	DeathLimit        int     `yaml:"deathLimit" json:"deathLimit"`
	MinRegionSize     int     `yaml:"minRegionSize" json:"minRegionSize"`
	ConnectAllRegions bool    `yaml:"connectAllRegions" json:"connectAllRegions"`
}

// DoorPosition selects where along a corridor path a door is placed.
type DoorPosition = passes.DoorPosition

const (
	DoorCenter     = passes.DoorCenter
	DoorStart      = passes.DoorStart
	DoorEnd        = passes.DoorEnd
	DoorChokepoint = passes.DoorChokepoint
)

// DoorSettings configures the door placement pass.
type DoorSettings struct {
	DoorRatio         float64      `yaml:"doorRatio" json:"doorRatio"`
	AllowLockedDoors  bool         `yaml:"allowLockedDoors" json:"allowLockedDoors"`
	LockedDoorRatio   float64      `yaml:"lockedDoorRatio" json:"lockedDoorRatio"`
	MinCorridorLength int          `yaml:"minCorridorLength" json:"minCorridorLength"`
	PreferredPosition DoorPosition `yaml:"preferredPosition" json:"preferredPosition"`
}

// DefaultConfig returns a Config with every documented valid-range
// field set to a reasonable mid-range default, algorithm bsp.
func DefaultConfig() Config {
	return Config{
		Width: 80, Height: 60, Algorithm: AlgorithmBSP,
		RoomCount:     12,
		RoomSizeRange: [2]int{5, 12},
		BSP: BSPSettings{
			MinRoomSize: 5, MaxRoomSize: 14,
			SplitRatioMin: 0.4, SplitRatioMax: 0.6,
			RoomPadding: 1, CorridorWidth: 1,
			MaxDepth: 6, RoomPlacementChance: 1.0,
			CorridorStyle: passes.CarverAStar, CorridorCrossing: passes.CrossingReject,
		},
		Cellular: CellularSettings{
			InitialFillRatio: 0.45, Iterations: 4,
			BirthLimit: 5, DeathLimit: 4,
			MinRegionSize: 40, ConnectAllRegions: false,
		},
		Doors: DoorSettings{
			DoorRatio: 0.3, AllowLockedDoors: false,
			LockedDoorRatio: 0.2, MinCorridorLength: 4,
			PreferredPosition: DoorCenter,
		},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates YAML configuration bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks dimension and every documented range, returning a
// single *Error aggregating every issue found (ErrConfigInvalid), or a
// dedicated ErrConfigDimensionTooLarge when width*height exceeds
// MaxCells.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return &Error{Code: ErrConfigInvalid, Message: "width and height must be positive", ConfigIssues: []string{"width/height non-positive"}}
	}
	if c.Width*c.Height > MaxCells {
		return &Error{Code: ErrConfigDimensionTooLarge, Message: fmt.Sprintf("width*height = %d exceeds MaxCells = %d", c.Width*c.Height, MaxCells)}
	}

	var issues []string
	switch c.Algorithm {
	case AlgorithmBSP, AlgorithmCellular, AlgorithmHybrid:
	default:
		issues = append(issues, fmt.Sprintf("algorithm %q is not one of bsp, cellular, hybrid", c.Algorithm))
	}

	if c.RoomSizeRange[0] <= 0 || c.RoomSizeRange[1] < c.RoomSizeRange[0] {
		issues = append(issues, "roomSizeRange must be [min,max] with 0 < min <= max")
	}

	// Clamp roomCount against an area density cap: at most one room
	// per (2*minRoomSize)^2 cells, never fewer than 1.
	densityCap := (c.Width * c.Height) / maxInt(1, (2*c.BSP.MinRoomSize)*(2*c.BSP.MinRoomSize))
	if densityCap < 1 {
		densityCap = 1
	}
	if c.RoomCount > densityCap {
		c.RoomCount = densityCap
	}
	if c.RoomCount < 1 {
		issues = append(issues, "roomCount must be >= 1")
	}

	issues = append(issues, c.BSP.validate()...)
	issues = append(issues, c.Cellular.validate()...)
	issues = append(issues, c.Doors.validate()...)

	if len(issues) > 0 {
		return &Error{Code: ErrConfigInvalid, Message: "configuration failed validation", ConfigIssues: issues}
	}
	return nil
}

func (b *BSPSettings) validate() []string {
	var issues []string
	if b.MinRoomSize < 3 {
		issues = append(issues, "bsp.minRoomSize must be >= 3")
	}
	if b.MaxRoomSize < b.MinRoomSize {
		issues = append(issues, "bsp.maxRoomSize must be >= bsp.minRoomSize")
	}
	if b.SplitRatioMin < 0.1 || b.SplitRatioMax > 0.9 || b.SplitRatioMin > b.SplitRatioMax {
		issues = append(issues, "bsp.splitRatioMin/Max must satisfy 0.1 <= min <= max <= 0.9")
	}
	if b.RoomPadding < 0 {
		issues = append(issues, "bsp.roomPadding must be >= 0")
	}
	if b.CorridorWidth < 1 {
		issues = append(issues, "bsp.corridorWidth must be >= 1")
	}
	if b.MaxDepth < 1 || b.MaxDepth > 12 {
		issues = append(issues, "bsp.maxDepth must be in [1, 12]")
	}
	if b.RoomPlacementChance < 0 || b.RoomPlacementChance > 1 {
		issues = append(issues, "bsp.roomPlacementChance must be in [0, 1]")
	}
	switch b.CorridorStyle {
	case passes.CarverLShape, passes.CarverBresenham, passes.CarverAStar:
	default:
		issues = append(issues, fmt.Sprintf("bsp.corridorStyle %q invalid", b.CorridorStyle))
	}
	switch b.CorridorCrossing {
	case passes.CrossingReject, passes.CrossingRecord:
	default:
		issues = append(issues, fmt.Sprintf("bsp.corridorCrossing %q invalid", b.CorridorCrossing))
	}
	return issues
}

func (c *CellularSettings) validate() []string {
	var issues []string
	if c.InitialFillRatio < 0.2 || c.InitialFillRatio > 0.7 {
		issues = append(issues, "cellular.initialFillRatio must be in [0.2, 0.7]")
	}
	if c.Iterations < 1 || c.Iterations > 12 {
		issues = append(issues, "cellular.iterations must be in [1, 12]")
	}
	if c.BirthLimit < 1 || c.BirthLimit > 8 {
		issues = append(issues, "cellular.birthLimit must be in [1, 8]")
	}
	if c.DeathLimit < 1 || c.DeathLimit > 8 {
		issues = append(issues, "cellular.deathLimit must be in [1, 8]")
	}
	if c.MinRegionSize < 1 {
		issues = append(issues, "cellular.minRegionSize must be >= 1")
	}
	return issues
}

func (d *DoorSettings) validate() []string {
	var issues []string
	if d.DoorRatio < 0 || d.DoorRatio > 1 {
		issues = append(issues, "doors.doorRatio must be in [0, 1]")
	}
	if d.LockedDoorRatio < 0 || d.LockedDoorRatio > 1 {
		issues = append(issues, "doors.lockedDoorRatio must be in [0, 1]")
	}
	if d.MinCorridorLength < 0 {
		issues = append(issues, "doors.minCorridorLength must be >= 0")
	}
	switch d.PreferredPosition {
	case DoorCenter, DoorStart, DoorEnd, DoorChokepoint:
	default:
		issues = append(issues, fmt.Sprintf("doors.preferredPosition %q invalid", d.PreferredPosition))
	}
	return issues
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) { return yaml.Marshal(c) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
