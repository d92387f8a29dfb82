package engine

// Direction is a unit step across the board
type Direction struct {
	DX int
	DY int
}

// Directions lists the eight compass directions
var Directions = [8]Direction{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// CaptureResult is the outcome of scanning one ray. When Capturable is
// false the ray ran into an empty square or the edge and Count is zero.
type CaptureResult struct {
	Capturable bool
	Count      int
}

// NotCapturable is the result for a ray with no anchoring piece
var NotCapturable = CaptureResult{}

// Capturable returns a result capturing n opponent pieces
func Capturable(n int) CaptureResult {
	return CaptureResult{Capturable: true, Count: n}
}

// Captures reports whether the ray would flip at least one piece
func (r CaptureResult) Captures() bool {
	return r.Capturable && r.Count > 0
}

// Scan walks from (x, y) along dir for the acting player. The walk starts
// at the given square, so callers pass the square adjacent to the
// candidate placement. A run of opponent pieces ending in one of the
// acting player's pieces is capturable.
func Scan(b *Board, x, y int, dir Direction, acting Player) CaptureResult {
	if !InBounds(x, y) {
		return NotCapturable
	}

	switch b.PieceAt(x, y) {
	case Empty:
		return NotCapturable
	case acting.Cell():
		return Capturable(0)
	}

	rest := Scan(b, x+dir.DX, y+dir.DY, dir, acting)
	if !rest.Capturable {
		return NotCapturable
	}
	return Capturable(rest.Count + 1)
}
