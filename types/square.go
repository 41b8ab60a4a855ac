package types

import "fmt"

// Board coordinate system:
// - Files: a-h, left to right, file = 'a' + Col
// - Ranks: 1-8, from white's side, rank = 8 - Row
// - Example: b1 is (7, 1), e4 is (4, 4), h8 is (0, 7)

// String returns the square in file-then-rank form.
// (7, 1) -> "b1", (4, 4) -> "e4", (0, 7) -> "h8"
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(s.Col), 8-s.Row)
}

// ParseSquare converts a file-then-rank string to a Square.
// "b1" -> (7, 1), "e4" -> (4, 4). Uppercase files are accepted.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	file := s[0]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' {
		return Square{}, fmt.Errorf("invalid file in square: %q", s)
	}
	rank := s[1]
	if rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("invalid rank in square: %q", s)
	}
	return Square{Row: 8 - int(rank-'0'), Col: int(file - 'a')}, nil
}

// HomeRow returns the row a side's pawns start on.
func HomeRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// Forward returns the row delta of a pawn step for the side.
// White advances toward row 0.
func Forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}
