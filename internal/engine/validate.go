package engine

// Rejection explains why a placement was refused
type Rejection string

const (
	NotRejected Rejection = ""
	Occupied    Rejection = "occupied"
	NoCapture   Rejection = "no_capture"
	OutOfBounds Rejection = "out_of_bounds"
)

// DirectionalCapture is a capturing ray from a candidate square
type DirectionalCapture struct {
	Direction Direction
	Count     int
}

// Validate checks a candidate placement and returns every capturing ray.
// A placement is legal when the square is empty and at least one ray
// captures an opponent piece.
func Validate(b *Board, x, y int, acting Player) ([]DirectionalCapture, Rejection) {
	if !InBounds(x, y) {
		return nil, OutOfBounds
	}
	if b.PieceAt(x, y) != Empty {
		return nil, Occupied
	}

	var captures []DirectionalCapture
	for _, dir := range Directions {
		result := Scan(b, x+dir.DX, y+dir.DY, dir, acting)
		if result.Captures() {
			captures = append(captures, DirectionalCapture{Direction: dir, Count: result.Count})
		}
	}

	if len(captures) == 0 {
		return nil, NoCapture
	}
	return captures, NotRejected
}

// IsLegal reports whether acting may place a piece at (x, y)
func IsLegal(b *Board, x, y int, acting Player) bool {
	_, rejection := Validate(b, x, y, acting)
	return rejection == NotRejected
}

// LegalMoves returns every square where the player may place, in x-major order
func LegalMoves(b *Board, player Player) []Position {
	var moves []Position
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if IsLegal(b, x, y, player) {
				moves = append(moves, Position{X: x, Y: y})
			}
		}
	}
	return moves
}

// HasAnyLegalMove reports whether the player has at least one legal placement
func HasAnyLegalMove(b *Board, player Player) bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if IsLegal(b, x, y, player) {
				return true
			}
		}
	}
	return false
}
