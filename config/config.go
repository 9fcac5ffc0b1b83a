// Package config は Linux 版 touchcal の設定ファイル (YAML) を読む
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"touchcal-pico/calibrate"
	"touchcal-pico/xpt2046"
)

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Config struct {
	SPIPort      string        `yaml:"spi_port"`
	SPIHz        int64         `yaml:"spi_hz"`
	CSPin        string        `yaml:"cs_pin"`
	IRQPin       string        `yaml:"irq_pin"`
	SampleCount  int           `yaml:"sample_count"`
	ReadX        byte          `yaml:"read_x"`
	ReadY        byte          `yaml:"read_y"`
	RawShift     uint          `yaml:"raw_shift"`
	ScreenWidth  int           `yaml:"screen_width"`
	ScreenHeight int           `yaml:"screen_height"`
	Targets      []Point       `yaml:"targets"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MinDivider   int64         `yaml:"min_divider"`
	MinShape     int64         `yaml:"min_shape"`
}

// Default は Raspberry Pi + 240x320 パネルの既定値
func Default() Config {
	c := Config{
		SPIHz:        2000000,
		CSPin:        "GPIO7",
		IRQPin:       "GPIO17",
		SampleCount:  xpt2046.DefaultSampleCount,
		ReadX:        xpt2046.CommandReadX,
		ReadY:        xpt2046.CommandReadY,
		RawShift:     xpt2046.DefaultRawShift,
		ScreenWidth:  calibrate.DefaultBounds.Width,
		ScreenHeight: calibrate.DefaultBounds.Height,
		PollInterval: calibrate.DefaultPollInterval,
		MinDivider:   calibrate.DefaultLimits.MinDivider,
		MinShape:     calibrate.DefaultLimits.MinShape,
	}
	for _, t := range calibrate.DefaultTargets {
		c.Targets = append(c.Targets, Point{X: t.X, Y: t.Y})
	}
	return c
}

// Load は path を読み、書かれていない項目は Default の値にする。
// path が空なら Default を返す
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if len(c.Targets) != 3 {
		return fmt.Errorf("need exactly 3 targets, got %d", len(c.Targets))
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	for i, t := range c.Targets {
		if t.X < 0 || t.X >= c.ScreenWidth || t.Y < 0 || t.Y >= c.ScreenHeight {
			return fmt.Errorf("target %d (%d,%d) is off screen", i+1, t.X, t.Y)
		}
	}
	if c.SampleCount < 1 {
		return fmt.Errorf("invalid sample_count %d", c.SampleCount)
	}
	if c.RawShift > 15 {
		return fmt.Errorf("invalid raw_shift %d", c.RawShift)
	}
	if c.MinDivider < 0 || c.MinShape < 0 || c.MinShape > 1000 {
		return fmt.Errorf("invalid limits min_divider=%d min_shape=%d", c.MinDivider, c.MinShape)
	}
	return nil
}

// Sampler は xpt2046 の設定を返す
func (c Config) Sampler() xpt2046.Config {
	return xpt2046.Config{
		SampleCount: c.SampleCount,
		ReadX:       c.ReadX,
		ReadY:       c.ReadY,
		RawShift:    c.RawShift,
	}
}

func (c Config) Bounds() calibrate.Bounds {
	return calibrate.Bounds{Width: c.ScreenWidth, Height: c.ScreenHeight}
}

// Limits は3点の三角形の下限を返す
func (c Config) Limits() calibrate.Limits {
	return calibrate.Limits{MinDivider: c.MinDivider, MinShape: c.MinShape}
}

func (c Config) CalibrationTargets() [3]calibrate.DisplayPoint {
	var t [3]calibrate.DisplayPoint
	for i := range t {
		t[i] = calibrate.DisplayPoint{X: c.Targets[i].X, Y: c.Targets[i].Y}
	}
	return t
}
