package engine

// PlacementOutcome describes an applied or refused placement
type PlacementOutcome struct {
	Position  Position
	Flipped   int
	Flips     []Position
	Rejection Rejection
}

// Applied reports whether the placement changed the board
func (o PlacementOutcome) Applied() bool {
	return o.Rejection == NotRejected
}

// Apply places a piece for acting at (x, y) and flips every captured run.
// The placement is validated again first; an illegal placement leaves the
// board untouched and is reported through Rejection. All flips are
// collected before any square is written.
func Apply(b *Board, x, y int, acting Player) PlacementOutcome {
	outcome := PlacementOutcome{Position: Position{X: x, Y: y}}

	captures, rejection := Validate(b, x, y, acting)
	if rejection != NotRejected {
		outcome.Rejection = rejection
		return outcome
	}

	for _, capture := range captures {
		cx, cy := x, y
		for i := 0; i < capture.Count; i++ {
			cx += capture.Direction.DX
			cy += capture.Direction.DY
			outcome.Flips = append(outcome.Flips, Position{X: cx, Y: cy})
		}
	}
	outcome.Flipped = len(outcome.Flips)

	own := acting.Cell()
	for _, p := range outcome.Flips {
		b.set(p.X, p.Y, own)
	}
	b.set(x, y, own)

	return outcome
}
