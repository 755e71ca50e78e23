package domain

// TileTask describes one row band of a frame to reduce. Window holds
// the band rows plus the halo rows the filter needs on each side;
// Offset is the position of the band's first row inside Window. The
// window rows are shared with the source frame and must be treated as
// read-only.
type TileTask struct {
	Index      int
	Start, End int
	Offset     int
	Window     [][]float64
	Background float64
}

// TileResult carries the reduced rows of one band.
type TileResult struct {
	Start, End int
	Rows       [][]float64
}
