package rules

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"termchess-local/types"
)

const (
	quietSep   = "-"
	captureSep = "×"
)

// Execute moves the piece on from to to and returns whatever stood on to.
// It does not validate the move; callers gate on IsLegal first.
// If from is empty the board is left unchanged.
func Execute(b *types.Board, from, to types.Square) (captured types.Piece, ok bool) {
	p, occupied := b.At(from)
	if !occupied {
		return types.Piece{}, false
	}
	captured, ok = b.At(to)
	b.Set(to, p)
	b.Clear(from)
	return captured, ok
}

// Notation renders a move as symbol, source, separator, destination:
// "♘b1-c3" for a quiet move, "♙e4×d5" for a capture.
func Notation(p types.Piece, from, to types.Square, captured bool) string {
	sep := quietSep
	if captured {
		sep = captureSep
	}
	return p.Symbol() + from.String() + sep + to.String()
}

// ParseNotation recovers the source and destination squares from a string
// produced by Notation.
func ParseNotation(s string) (from, to types.Square, err error) {
	s = strings.TrimSpace(s)
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return from, to, fmt.Errorf("empty notation")
	}
	body := s[size:]

	sep := quietSep
	if strings.Contains(body, captureSep) {
		sep = captureSep
	}
	parts := strings.SplitN(body, sep, 2)
	if len(parts) != 2 {
		return from, to, fmt.Errorf("invalid notation: %q", s)
	}
	if from, err = types.ParseSquare(parts[0]); err != nil {
		return from, to, fmt.Errorf("invalid notation %q: %w", s, err)
	}
	if to, err = types.ParseSquare(parts[1]); err != nil {
		return from, to, fmt.Errorf("invalid notation %q: %w", s, err)
	}
	return from, to, nil
}
