package types

import (
	nchess "github.com/corentings/chess/v2"
)

var fenKinds = map[Kind]nchess.PieceType{
	Pawn:   nchess.Pawn,
	Knight: nchess.Knight,
	Bishop: nchess.Bishop,
	Rook:   nchess.Rook,
	Queen:  nchess.Queen,
	King:   nchess.King,
}

// FEN returns the piece-placement field of the position, e.g.
// "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR" for the starting board.
func (b *Board) FEN() string {
	m := make(map[nchess.Square]nchess.Piece)
	for _, sq := range Squares() {
		p, ok := b.At(sq)
		if !ok {
			continue
		}
		color := nchess.White
		if p.Color == Black {
			color = nchess.Black
		}
		m[toChessSquare(sq)] = nchess.NewPiece(fenKinds[p.Kind], color)
	}
	return nchess.NewBoard(m).String()
}

// toChessSquare maps row/col to the library's a1=0 square index.
func toChessSquare(sq Square) nchess.Square {
	return nchess.NewSquare(nchess.File(sq.Col), nchess.Rank(7-sq.Row))
}
