package util

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// NoiseSource - детерминированный двумерный шум в диапазоне примерно [-1, 1]
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

// PerlinNoise оборачивает генератор шума Перлина
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise создаёт шум Перлина с указанным сидом
func NewPerlinNoise(seed int64) *PerlinNoise {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &PerlinNoise{p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise2D возвращает значение шума для указанных координат
func (n *PerlinNoise) Noise2D(x, y float64) float64 {
	return n.p.Noise2D(x, y)
}

// SimplexNoise оборачивает OpenSimplex
type SimplexNoise struct {
	n opensimplex.Noise
}

// NewSimplexNoise создаёт шум OpenSimplex с указанным сидом
func NewSimplexNoise(seed int64) *SimplexNoise {
	return &SimplexNoise{n: opensimplex.New(seed)}
}

// Noise2D возвращает значение шума для указанных координат
func (n *SimplexNoise) Noise2D(x, y float64) float64 {
	return n.n.Eval2(x, y)
}

// NewNoiseSource выбирает источник шума по имени из конфига
func NewNoiseSource(kind string, seed int64) (NoiseSource, error) {
	switch strings.ToLower(kind) {
	case "perlin", "":
		return NewPerlinNoise(seed), nil
	case "simplex", "opensimplex":
		return NewSimplexNoise(seed), nil
	default:
		return nil, fmt.Errorf("неизвестный источник шума %q", kind)
	}
}

// Octave - одна октава рельефа
type Octave struct {
	Source    NoiseSource
	Frequency float64
	Amplitude float64
}

// OctaveHeight складывает несколько октав шума поверх базовой высоты
type OctaveHeight struct {
	Base    float64
	Octaves []Octave
}

// Height возвращает высоту колонки (x, z)
func (h OctaveHeight) Height(x, z float64) float64 {
	height := h.Base
	for _, o := range h.Octaves {
		height += o.Amplitude * o.Source.Noise2D(x*o.Frequency, z*o.Frequency)
	}
	return height
}
