package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writes the mesh as a binary little endian PLY file with per vertex colors
func WritePly(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	header := "ply\n" +
		"format binary_little_endian 1.0\n" +
		"comment generated by vector_tiler\n" +
		fmt.Sprintf("element vertex %d\n", m.NumVertices()) +
		"property float x\n" +
		"property float y\n" +
		"property float z\n" +
		"property uchar red\n" +
		"property uchar green\n" +
		"property uchar blue\n" +
		fmt.Sprintf("element face %d\n", m.NumTriangles()) +
		"property list uchar uint vertex_indices\n" +
		"end_header\n"
	if _, err := bw.WriteString(header); err != nil {
		return err
	}

	for i := 0; i < m.NumVertices(); i++ {
		if err := binary.Write(bw, binary.LittleEndian, m.Positions[3*i:3*i+3]); err != nil {
			return err
		}
		rgb := [3]uint8{toByte(m.Colors[3*i]), toByte(m.Colors[3*i+1]), toByte(m.Colors[3*i+2])}
		if _, err := bw.Write(rgb[:]); err != nil {
			return err
		}
	}

	for i := 0; i < m.NumTriangles(); i++ {
		if err := bw.WriteByte(3); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, m.Indices[3*i:3*i+3]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func toByte(c float32) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, float64(c))) * 255))
}
