package io

import (
	"fmt"
	"os"

	"github.com/ecopia-map/vector_tiler/internal/data"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/segmentio/encoding/json"
)

// Layout of a sampled point file: the canvas size and the sampled points with their channels
type PointFile struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Points []*PointRecord `json:"points"`
}

type PointRecord struct {
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	Color          string   `json:"color"`
	QuantizedColor string   `json:"quantizedColor,omitempty"`
	LOD            float64  `json:"lod"`
	Depth          float64  `json:"depth"`
	Matting        float64  `json:"matting"`
	SaliencyA      float64  `json:"saliencyA"`
	SaliencyO      float64  `json:"saliencyO"`
	Segment        [3]uint8 `json:"segment"`
}

func ReadPointFile(path string) (*PointFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading point file %s: %w", path, err)
	}
	f, err := DecodePointFile(content)
	if err != nil {
		return nil, fmt.Errorf("decoding point file %s: %w", path, err)
	}
	return f, nil
}

func DecodePointFile(content []byte) (*PointFile, error) {
	f := &PointFile{}
	if err := json.Unmarshal(content, f); err != nil {
		return nil, err
	}
	return f, nil
}

func WritePointFile(path string, f *PointFile) error {
	content, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0666)
}

// Builds a record from a point, colors written as hex
func NewPointRecord(p *data.Point) *PointRecord {
	return &PointRecord{
		X:              p.X,
		Y:              p.Y,
		Color:          p.Color.Clamped().Hex(),
		QuantizedColor: p.QuantizedColor.Clamped().Hex(),
		LOD:            p.LOD,
		Depth:          p.Depth,
		Matting:        p.Matting,
		SaliencyA:      p.SaliencyA,
		SaliencyO:      p.SaliencyO,
		Segment:        p.Segment,
	}
}

// Converts the records into points. A missing quantized color defaults to the original color.
func (f *PointFile) DataPoints() ([]*data.Point, error) {
	points := make([]*data.Point, 0, len(f.Points))
	for i, r := range f.Points {
		if r == nil {
			return nil, fmt.Errorf("point %d is null", i)
		}
		color, err := colorful.Hex(r.Color)
		if err != nil {
			return nil, fmt.Errorf("point %d: color %q: %w", i, r.Color, err)
		}
		p := data.NewPoint(r.X, r.Y, r.LOD, color, r.Depth, r.Matting, r.SaliencyA, r.SaliencyO, r.Segment)
		if r.QuantizedColor != "" {
			if p.QuantizedColor, err = colorful.Hex(r.QuantizedColor); err != nil {
				return nil, fmt.Errorf("point %d: quantized color %q: %w", i, r.QuantizedColor, err)
			}
		}
		points = append(points, p)
	}
	return points, nil
}
