// Package record writes and reads PGN game records with clock annotations.
package record

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"termchess-local/ledger"
	"termchess-local/types"
)

// Header describes a game at the time its record is created.
type Header struct {
	GameID           string
	White            string
	Black            string
	BaseSeconds      int
	IncrementSeconds int
	Started          time.Time
}

// GameRecord tracks a game in progress and writes it as PGN. The file is
// rewritten in full after every change so a crash loses at most one move.
type GameRecord struct {
	FilePath    string
	Header      Header
	Result      string
	Termination string
	moves       []ledger.MoveRecord
	file        *os.File
}

// NewGameRecord creates a new PGN file in dir and writes the tag section.
func NewGameRecord(dir string, h Header) (*GameRecord, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	if h.Started.IsZero() {
		h.Started = time.Now()
	}

	f, path, err := createUnique(dir, recordName(h))
	if err != nil {
		return nil, fmt.Errorf("create pgn file: %w", err)
	}

	rec := &GameRecord{
		FilePath: path,
		Header:   h,
		Result:   "*",
		file:     f,
	}
	if err := rec.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return rec, nil
}

// maxNameAttempts bounds the suffixes tried for a taken file name.
const maxNameAttempts = 100

// recordName is the file name stem for h: start time, time control and the
// first eight characters of the game ID.
func recordName(h Header) string {
	name := fmt.Sprintf("%s_%d+%d", h.Started.Format("2006-01-02_150405"), h.BaseSeconds, h.IncrementSeconds)
	if id := h.GameID; id != "" {
		if len(id) > 8 {
			id = id[:8]
		}
		name += "_" + id
	}
	return name
}

// createUnique creates dir/name.pgn, or dir/name-2.pgn and so on when the
// name is taken. An existing record is never truncated.
func createUnique(dir, name string) (*os.File, string, error) {
	for i := 1; i <= maxNameAttempts; i++ {
		filename := name + ".pgn"
		if i > 1 {
			filename = fmt.Sprintf("%s-%d.pgn", name, i)
		}
		path := filepath.Join(dir, filename)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("no free file name for %s", name)
}

// AddMove appends an executed move to the record.
func (r *GameRecord) AddMove(m ledger.MoveRecord) error {
	r.moves = append(r.moves, m)
	return r.flush()
}

// Moves returns the number of recorded moves.
func (r *GameRecord) Moves() int {
	return len(r.moves)
}

// SetResult parses a game outcome and sets the Result and Termination tags.
// Accepts PGN results ("1-0", "0-1", "1/2-1/2", "*") as well as messages
// like "Black wins on time!".
func (r *GameRecord) SetResult(outcome string) error {
	r.Result, r.Termination = parseResult(outcome)
	return r.flush()
}

// Close performs a final flush and closes the file handle.
func (r *GameRecord) Close() {
	if r.file == nil {
		return
	}
	r.flush()
	r.file.Close()
	r.file = nil
}

// flush rewrites the complete PGN file from scratch.
func (r *GameRecord) flush() error {
	if r.file == nil {
		return fmt.Errorf("file already closed")
	}

	content := r.String()
	if _, err := r.file.Seek(0, 0); err != nil {
		return err
	}
	if err := r.file.Truncate(0); err != nil {
		return err
	}
	if _, err := r.file.WriteString(content); err != nil {
		return err
	}
	return r.file.Sync()
}

// String renders the record as PGN.
func (r *GameRecord) String() string {
	return Render(r.Header, r.Result, r.Termination, r.moves)
}

// Render produces a complete PGN document: tag section, blank line and
// movetext ending in result.
func Render(h Header, result, termination string, moves []ledger.MoveRecord) string {
	var b strings.Builder

	writeTag(&b, "Event", "Casual game")
	writeTag(&b, "Site", "termchess-local")
	writeTag(&b, "Date", h.Started.Format("2006.01.02"))
	writeTag(&b, "Round", "-")
	writeTag(&b, "White", h.White)
	writeTag(&b, "Black", h.Black)
	writeTag(&b, "Result", result)
	writeTag(&b, "TimeControl", fmt.Sprintf("%d+%d", h.BaseSeconds, h.IncrementSeconds))
	writeTag(&b, "Time", h.Started.Format("15:04:05"))
	if h.GameID != "" {
		writeTag(&b, "GameId", h.GameID)
	}
	if termination != "" {
		writeTag(&b, "Termination", termination)
	}
	b.WriteString("\n")

	b.WriteString(Movetext(moves, result))
	b.WriteString("\n")
	return b.String()
}

// Movetext renders moves with [%clk] and [%emt] comments, followed by result.
// A move, its number and its comment always share a line.
func Movetext(moves []ledger.MoveRecord, result string) string {
	var parts []string
	for i, m := range moves {
		var prefix string
		num := (m.Ordinal + 1) / 2
		switch {
		case m.Player == types.White:
			prefix = fmt.Sprintf("%d. ", num)
		case i == 0:
			prefix = fmt.Sprintf("%d... ", num)
		}
		parts = append(parts, fmt.Sprintf("%s%s {[%%clk %s] [%%emt %s]}",
			prefix, m.Notation, FormatClock(m.RemainingAfter), FormatClock(m.ElapsedSeconds)))
	}
	parts = append(parts, result)
	return wrap(parts, 79)
}

// FormatClock renders seconds as H:MM:SS.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func writeTag(b *strings.Builder, name, value string) {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	fmt.Fprintf(b, "[%s \"%s\"]\n", name, value)
}

// wrap joins tokens with spaces, breaking lines before width.
func wrap(tokens []string, width int) string {
	var b strings.Builder
	line := 0
	for _, tok := range tokens {
		n := len([]rune(tok))
		if line > 0 && line+1+n > width {
			b.WriteString("\n")
			line = 0
		}
		if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(tok)
		line += n
	}
	return b.String()
}

// parseResult converts an outcome to a PGN result and termination.
func parseResult(outcome string) (result, termination string) {
	o := strings.TrimSpace(outcome)
	if isValidResult(o) {
		return o, ""
	}

	low := strings.ToLower(o)
	switch {
	case strings.HasPrefix(low, "white wins"):
		result = "1-0"
	case strings.HasPrefix(low, "black wins"):
		result = "0-1"
	case strings.HasPrefix(low, "draw"):
		result = "1/2-1/2"
	default:
		return "*", ""
	}

	switch {
	case strings.Contains(low, "on time"), strings.Contains(low, "by time"):
		termination = "time forfeit"
	case strings.Contains(low, "abandon"):
		termination = "abandoned"
	default:
		termination = "normal"
	}
	return result, termination
}

func isValidResult(s string) bool {
	switch s {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
