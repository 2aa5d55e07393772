package converters

// Maps canvas pixel coordinates to the coordinate space of the exported mesh
type CoordinateConverter interface {
	ConvertToMesh(x, y float64) (float64, float64)
	Cleanup()
}

// Turns the depth of a region into the elevation of its mesh vertices
type ElevationCorrector interface {
	CorrectElevation(x, y, depth float64) float64
}
