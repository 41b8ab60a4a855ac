package types

// cell is one board square; ok is false when empty.
type cell struct {
	piece Piece
	ok    bool
}

// Board is an 8x8 grid of optional pieces indexed as [row][col].
type Board struct {
	cells [8][8]cell
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewEmptyBoard creates a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewStandardBoard creates the standard starting position.
func NewStandardBoard() *Board {
	b := &Board{}
	for col, k := range backRank {
		b.Set(Square{Row: 0, Col: col}, Piece{Kind: k, Color: Black})
		b.Set(Square{Row: 1, Col: col}, Piece{Kind: Pawn, Color: Black})
		b.Set(Square{Row: 6, Col: col}, Piece{Kind: Pawn, Color: White})
		b.Set(Square{Row: 7, Col: col}, Piece{Kind: k, Color: White})
	}
	return b
}

// At returns the piece on sq and whether the square is occupied.
// Off-board squares are reported as empty.
func (b *Board) At(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	c := b.cells[sq.Row][sq.Col]
	return c.piece, c.ok
}

// Occupied returns true if sq holds a piece.
func (b *Board) Occupied(sq Square) bool {
	_, ok := b.At(sq)
	return ok
}

// Set places p on sq, replacing anything there.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b.cells[sq.Row][sq.Col] = cell{piece: p, ok: true}
}

// Clear empties sq.
func (b *Board) Clear(sq Square) {
	if !sq.Valid() {
		return
	}
	b.cells[sq.Row][sq.Col] = cell{}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int {
	n := 0
	for row := range b.cells {
		for col := range b.cells[row] {
			if b.cells[row][col].ok {
				n++
			}
		}
	}
	return n
}

// Squares returns all 64 squares in row-major order.
func Squares() []Square {
	out := make([]Square, 0, 64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			out = append(out, Square{Row: row, Col: col})
		}
	}
	return out
}
