// Package rules implements simplified chess movement: per-piece legality,
// the legal-destination scan used for highlighting, move execution and
// move notation.
//
// There is no notion of check. Castling, en passant and promotion do not
// exist, and a king can be captured like any other piece.
package rules

import "termchess-local/types"

// moveRule decides whether a piece may travel by (dr, dc) from `from`.
// Occupancy of the destination by an own piece is rejected before the rule runs.
type moveRule func(b *types.Board, p types.Piece, from, to types.Square, dr, dc int) bool

var moveRules = map[types.Kind]moveRule{
	types.Pawn:   pawnMove,
	types.Knight: knightMove,
	types.Bishop: bishopMove,
	types.Rook:   rookMove,
	types.Queen:  queenMove,
	types.King:   kingMove,
}

// IsLegal reports whether the piece on from may move to to.
// It never mutates the board.
func IsLegal(b *types.Board, from, to types.Square) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	p, ok := b.At(from)
	if !ok {
		return false
	}
	if target, occupied := b.At(to); occupied && target.Color == p.Color {
		return false
	}
	rule, ok := moveRules[p.Kind]
	if !ok {
		return false
	}
	return rule(b, p, from, to, to.Row-from.Row, to.Col-from.Col)
}

func pawnMove(b *types.Board, p types.Piece, from, to types.Square, dr, dc int) bool {
	fwd := types.Forward(p.Color)
	target, occupied := b.At(to)

	switch {
	case dc == 0 && dr == fwd:
		return !occupied
	case dc == 0 && dr == 2*fwd:
		if from.Row != types.HomeRow(p.Color) || occupied {
			return false
		}
		return !b.Occupied(types.Square{Row: from.Row + fwd, Col: from.Col})
	case abs(dc) == 1 && dr == fwd:
		return occupied && target.Color != p.Color
	}
	return false
}

func knightMove(_ *types.Board, _ types.Piece, _, _ types.Square, dr, dc int) bool {
	ar, ac := abs(dr), abs(dc)
	return (ar == 2 && ac == 1) || (ar == 1 && ac == 2)
}

func bishopMove(b *types.Board, _ types.Piece, from, to types.Square, dr, dc int) bool {
	if dr == 0 || abs(dr) != abs(dc) {
		return false
	}
	return pathClear(b, from, to)
}

func rookMove(b *types.Board, _ types.Piece, from, to types.Square, dr, dc int) bool {
	if (dr == 0) == (dc == 0) {
		return false
	}
	return pathClear(b, from, to)
}

func queenMove(b *types.Board, p types.Piece, from, to types.Square, dr, dc int) bool {
	return rookMove(b, p, from, to, dr, dc) || bishopMove(b, p, from, to, dr, dc)
}

func kingMove(_ *types.Board, _ types.Piece, _, _ types.Square, dr, dc int) bool {
	return abs(dr) <= 1 && abs(dc) <= 1 && (dr != 0 || dc != 0)
}
