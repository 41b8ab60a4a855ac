// Package types contains shared data structures for termchess-local.
package types

import "fmt"

// Color identifies a side.
type Color int

const (
	White Color = iota
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Kind is the kind of a chess piece.
type Kind int

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

// Kinds lists every piece kind in declaration order.
var Kinds = []Kind{Pawn, Knight, Bishop, Rook, Queen, King}

// Letter returns the English letter for the kind ("P", "N", ...).
func (k Kind) Letter() string {
	switch k {
	case Pawn:
		return "P"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return "?"
}

// Name returns the lowercase English name of the kind.
func (k Kind) Name() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "unknown"
}

// Piece is an immutable (kind, color) pair.
type Piece struct {
	Kind  Kind
	Color Color
}

var symbols = [2][6]string{
	{"♙", "♘", "♗", "♖", "♕", "♔"},
	{"♟", "♞", "♝", "♜", "♛", "♚"},
}

// Symbol returns the Unicode chess glyph for the piece.
func (p Piece) Symbol() string {
	return symbols[p.Color][p.Kind]
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Color, p.Kind.Name())
}

// Square is a (row, column) position on the board.
// Row 0 is black's home rank, row 7 is white's. Column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// Valid returns true if the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}
