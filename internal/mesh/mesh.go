package mesh

// Triangle mesh in flat typed buffers: three position and three color components per vertex and
// three indices per triangle
type Mesh struct {
	Positions []float32
	Colors    []float32
	Indices   []uint32
}

func NewMesh() *Mesh {
	return &Mesh{
		Positions: make([]float32, 0),
		Colors:    make([]float32, 0),
		Indices:   make([]uint32, 0),
	}
}

func (m *Mesh) NumVertices() int {
	return len(m.Positions) / 3
}

func (m *Mesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// Adds a vertex and returns its index
func (m *Mesh) AddVertex(x, y, z float64, r, g, b float64) uint32 {
	m.Positions = append(m.Positions, float32(x), float32(y), float32(z))
	m.Colors = append(m.Colors, float32(r), float32(g), float32(b))
	return uint32(m.NumVertices() - 1)
}

func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Appends the other mesh, shifting its indices past the vertices already present
func (m *Mesh) Append(other *Mesh) {
	if other == nil {
		return
	}
	offset := uint32(m.NumVertices())
	m.Positions = append(m.Positions, other.Positions...)
	m.Colors = append(m.Colors, other.Colors...)
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, i+offset)
	}
}
