package record

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"termchess-local/rules"
	"termchess-local/types"
)

// GameInfo holds metadata parsed from a PGN tag section.
type GameInfo struct {
	FilePath    string
	FileName    string
	GameID      string
	White       string
	Black       string
	Date        string
	Time        string
	Result      string
	Termination string
	TimeControl string
	MoveCount   int
}

// Move is one move read back from a record.
type Move struct {
	Player   types.Color
	Notation string
	Clock    int // remaining after the move, -1 if not annotated
	Elapsed  int // -1 if not annotated
}

var (
	tagLine    = regexp.MustCompile(`^\[(\w+)\s+"((?:[^"\\]|\\.)*)"\]\s*$`)
	moveNumber = regexp.MustCompile(`^\d+\.+$`)
	clkComment = regexp.MustCompile(`\[%clk\s+(\d+):(\d{2}):(\d{2})(?:\.\d+)?\]`)
	emtComment = regexp.MustCompile(`\[%emt\s+(\d+):(\d{2}):(\d{2})(?:\.\d+)?\]`)
)

// ParseHeader reads a PGN file and extracts its tags.
func ParseHeader(filePath string) (*GameInfo, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	tags, movetext := split(string(data))
	moves, err := parseMovetext(movetext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filePath), err)
	}

	return &GameInfo{
		FilePath:    filePath,
		FileName:    filepath.Base(filePath),
		GameID:      tags["GameId"],
		White:       tags["White"],
		Black:       tags["Black"],
		Date:        tags["Date"],
		Time:        tags["Time"],
		Result:      tags["Result"],
		Termination: tags["Termination"],
		TimeControl: tags["TimeControl"],
		MoveCount:   len(moves),
	}, nil
}

// ParseMoves reads the moves of a PGN file in order.
func ParseMoves(filePath string) ([]Move, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	_, movetext := split(string(data))
	return parseMovetext(movetext)
}

// ReplayToEnd parses a PGN file and replays all moves from the standard
// starting position. Returns the final board and the move count.
func ReplayToEnd(filePath string) (*types.Board, int, error) {
	moves, err := ParseMoves(filePath)
	if err != nil {
		return nil, 0, err
	}
	return Replay(moves)
}

// Replay applies moves to the standard starting position. Moves are not
// re-validated; a move from an empty square is an error.
func Replay(moves []Move) (*types.Board, int, error) {
	board := types.NewStandardBoard()
	for i, m := range moves {
		from, to, err := rules.ParseNotation(m.Notation)
		if err != nil {
			return nil, i, err
		}
		if _, ok := board.At(from); !ok {
			return nil, i, fmt.Errorf("move %d (%s): no piece on %s", i+1, m.Notation, from)
		}
		rules.Execute(board, from, to)
	}
	return board, len(moves), nil
}

// split separates the tag section from the movetext.
func split(content string) (map[string]string, string) {
	tags := make(map[string]string)
	var body []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := tagLine.FindStringSubmatch(trimmed); m != nil {
			tags[m[1]] = unescape(m[2])
			continue
		}
		body = append(body, trimmed)
	}
	return tags, strings.Join(body, " ")
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// parseMovetext walks movetext tokens. Comments attach to the move before
// them; move numbers and the result token are skipped.
func parseMovetext(text string) ([]Move, error) {
	var moves []Move
	next := types.White
	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("unterminated comment")
			}
			if len(moves) > 0 {
				annotate(&moves[len(moves)-1], text[i+1:i+end])
			}
			i += end + 1
		default:
			end := strings.IndexAny(text[i:], " \t\r{")
			if end == -1 {
				end = len(text) - i
			}
			tok := text[i : i+end]
			i += end

			if isValidResult(tok) || moveNumber.MatchString(tok) {
				if strings.HasSuffix(tok, "...") {
					next = types.Black
				}
				continue
			}
			if _, _, err := rules.ParseNotation(tok); err != nil {
				return nil, err
			}
			moves = append(moves, Move{Player: next, Notation: tok, Clock: -1, Elapsed: -1})
			next = next.Opponent()
		}
	}
	return moves, nil
}

func annotate(m *Move, comment string) {
	if c := clkComment.FindStringSubmatch(comment); c != nil {
		m.Clock = hms(c[1:])
	}
	if c := emtComment.FindStringSubmatch(comment); c != nil {
		m.Elapsed = hms(c[1:])
	}
}

func hms(parts []string) int {
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	s, _ := strconv.Atoi(parts[2])
	return h*3600 + m*60 + s
}

// ListGames scans a directory for .pgn files and returns their parsed
// headers, newest first (file names start with a timestamp).
func ListGames(dir string) ([]GameInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record dir: %w", err)
	}

	var games []GameInfo
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pgn") {
			continue
		}
		info, err := ParseHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		games = append(games, *info)
	}
	return games, nil
}
