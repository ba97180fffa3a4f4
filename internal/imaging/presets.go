package imaging

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsFile []byte

// Presets holds the derivative generation parameters loaded from the
// embedded YAML file.
type Presets struct {
	Compress struct {
		MaxWidth  int `yaml:"max_width"`
		MaxHeight int `yaml:"max_height"`
		Quality   int `yaml:"quality"`
	} `yaml:"compress"`
	Thumbnail struct {
		Size    int `yaml:"size"`
		Quality int `yaml:"quality"`
	} `yaml:"thumbnail"`
	CompressibleTypes []string `yaml:"compressible_types"`

	compressible map[string]bool
}

// NewPresets loads the embedded preset file.
func NewPresets() (*Presets, error) {
	var p Presets
	if err := yaml.Unmarshal(presetsFile, &p); err != nil {
		return nil, fmt.Errorf("unmarshal imaging presets: %w", err)
	}

	if p.Compress.MaxWidth <= 0 || p.Compress.MaxHeight <= 0 || p.Thumbnail.Size <= 0 {
		return nil, fmt.Errorf("imaging presets: dimensions must be positive")
	}

	p.compressible = make(map[string]bool, len(p.CompressibleTypes))
	for _, t := range p.CompressibleTypes {
		p.compressible[t] = true
	}

	return &p, nil
}

// IsCompressible reports whether a MIME type is an ordinary raster format
// that compression and thumbnailing apply to. Animated and vector formats
// pass through as-is.
func (p *Presets) IsCompressible(mimeType string) bool {
	return p.compressible[mimeType]
}
