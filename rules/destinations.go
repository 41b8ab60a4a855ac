package rules

import "termchess-local/types"

// MoveClass classifies a legal destination.
type MoveClass int

const (
	Quiet MoveClass = iota
	Capture
)

func (c MoveClass) String() string {
	if c == Capture {
		return "capture"
	}
	return "quiet"
}

// Destination is a legal target square for a selected piece.
type Destination struct {
	Square types.Square
	Class  MoveClass
}

// Destinations tests every square on the board through IsLegal and returns
// the legal ones in row-major order, tagged quiet or capture.
func Destinations(b *types.Board, from types.Square) []Destination {
	var out []Destination
	for _, sq := range types.Squares() {
		if !IsLegal(b, from, sq) {
			continue
		}
		class := Quiet
		if b.Occupied(sq) {
			class = Capture
		}
		out = append(out, Destination{Square: sq, Class: class})
	}
	return out
}
