package rules

import "termchess-local/types"

// Between returns the squares strictly between from and to when they share
// a rank, file or diagonal, walking from `from` toward `to`. Unaligned or
// adjacent squares yield nil.
func Between(from, to types.Square) []types.Square {
	dr := to.Row - from.Row
	dc := to.Col - from.Col

	aligned := (dr == 0) != (dc == 0) || (dr != 0 && abs(dr) == abs(dc))
	if !aligned {
		return nil
	}

	distance := max(abs(dr), abs(dc)) - 1
	if distance <= 0 {
		return nil
	}

	stepR, stepC := sign(dr), sign(dc)
	squares := make([]types.Square, 0, distance)
	sq := from
	for i := 0; i < distance; i++ {
		sq = types.Square{Row: sq.Row + stepR, Col: sq.Col + stepC}
		squares = append(squares, sq)
	}
	return squares
}

// pathClear reports whether every square strictly between from and to is empty.
func pathClear(b *types.Board, from, to types.Square) bool {
	for _, sq := range Between(from, to) {
		if b.Occupied(sq) {
			return false
		}
	}
	return true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
