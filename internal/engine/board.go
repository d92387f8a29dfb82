package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the width and height of the board
const Size = 8

// CellCount is the number of squares on the board
const CellCount = Size * Size

// Cell is the state of a single square
type Cell uint8

const (
	Empty Cell = iota
	OwnedByPlayer1
	OwnedByPlayer2
)

// Symbol returns the single character used for the cell in board rows
func (c Cell) Symbol() byte {
	switch c {
	case OwnedByPlayer1:
		return '1'
	case OwnedByPlayer2:
		return '2'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case OwnedByPlayer1:
		return "player1"
	case OwnedByPlayer2:
		return "player2"
	default:
		return "empty"
	}
}

// Owner returns the player holding the cell, or false for an empty cell
func (c Cell) Owner() (Player, bool) {
	switch c {
	case OwnedByPlayer1:
		return Player1, true
	case OwnedByPlayer2:
		return Player2, true
	default:
		return 0, false
	}
}

// Player identifies one of the two sides
type Player uint8

const (
	Player1 Player = 1
	Player2 Player = 2
)

// Valid reports whether p is Player1 or Player2
func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Cell returns the cell value owned by p, or Empty when p is not a valid player.
// An invalid player therefore captures nothing and every placement it
// attempts is rejected.
func (p Player) Cell() Cell {
	switch p {
	case Player1:
		return OwnedByPlayer1
	case Player2:
		return OwnedByPlayer2
	default:
		return Empty
	}
}

// Opponent returns the other player
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return fmt.Sprintf("player(%d)", uint8(p))
	}
}

// Position is a board coordinate, x across and y down
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether (x, y) lies on the board
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Board is the 8x8 grid, indexed [x][y]
type Board [Size][Size]Cell

// ErrMalformedBoard is returned when board rows cannot be parsed
var ErrMalformedBoard = errors.New("malformed board")

// PieceAt returns the cell at (x, y). Coordinates off the board read as Empty.
func (b *Board) PieceAt(x, y int) Cell {
	if !InBounds(x, y) {
		return Empty
	}
	return b[x][y]
}

// set writes a cell. Only the flip engine and board construction call it.
func (b *Board) set(x, y int, c Cell) {
	b[x][y] = c
}

// Count returns how many squares hold the given cell value
func (b *Board) Count(c Cell) int {
	n := 0
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b[x][y] == c {
				n++
			}
		}
	}
	return n
}

// IsFull reports whether no square is empty
func (b *Board) IsFull() bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b[x][y] == Empty {
				return false
			}
		}
	}
	return true
}

// Rows renders the board as Size strings, one per y, using Cell.Symbol
func (b *Board) Rows() []string {
	rows := make([]string, Size)
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		sb.Reset()
		for x := 0; x < Size; x++ {
			sb.WriteByte(b[x][y].Symbol())
		}
		rows[y] = sb.String()
	}
	return rows
}

// ParseBoard builds a board from rows in the Rows format
func ParseBoard(rows []string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedBoard, Size, len(rows))
	}
	for y, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, y, len(row))
		}
		for x := 0; x < Size; x++ {
			switch row[x] {
			case '.':
				b.set(x, y, Empty)
			case '1':
				b.set(x, y, OwnedByPlayer1)
			case '2':
				b.set(x, y, OwnedByPlayer2)
			default:
				return b, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrMalformedBoard, row[x], x, y)
			}
		}
	}
	return b, nil
}

// startingBoard returns the canonical opening position
func startingBoard() Board {
	var b Board
	b.set(3, 3, OwnedByPlayer1)
	b.set(4, 4, OwnedByPlayer1)
	b.set(3, 4, OwnedByPlayer2)
	b.set(4, 3, OwnedByPlayer2)
	return b
}
