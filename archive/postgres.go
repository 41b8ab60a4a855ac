package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS termchess_games (
    game_id           TEXT PRIMARY KEY,
    white_name        TEXT NOT NULL,
    black_name        TEXT NOT NULL,
    base_seconds      INTEGER NOT NULL,
    increment_seconds INTEGER NOT NULL,
    result            TEXT NOT NULL,
    termination       TEXT NOT NULL DEFAULT '',
    move_count        INTEGER NOT NULL,
    moves             JSONB NOT NULL,
    pgn               TEXT NOT NULL,
    final_fen         TEXT NOT NULL,
    started_at        TIMESTAMPTZ NOT NULL,
    ended_at          TIMESTAMPTZ NOT NULL,
    duration_ms       BIGINT NOT NULL
)`

// Repository persists finished games to PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(ctx context.Context, databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// EnsureSchema creates the games table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts a finished game.
func (r *Repository) SaveResult(ctx context.Context, g Game) error {
	if r == nil || r.db == nil {
		return nil
	}
	moves, err := movesJSON(g)
	if err != nil {
		return err
	}

	q := `INSERT INTO termchess_games (
        game_id, white_name, black_name, base_seconds, increment_seconds,
        result, termination, move_count, moves, pgn, final_fen,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
      ) ON CONFLICT (game_id) DO UPDATE SET
        white_name=EXCLUDED.white_name,
        black_name=EXCLUDED.black_name,
        base_seconds=EXCLUDED.base_seconds,
        increment_seconds=EXCLUDED.increment_seconds,
        result=EXCLUDED.result,
        termination=EXCLUDED.termination,
        move_count=EXCLUDED.move_count,
        moves=EXCLUDED.moves,
        pgn=EXCLUDED.pgn,
        final_fen=EXCLUDED.final_fen,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = r.db.ExecContext(ctx, q,
		g.GameID, g.White, g.Black, g.BaseSeconds, g.IncrementSeconds,
		g.Result, g.Termination, g.Moves, moves, g.PGN(), g.FinalFEN,
		g.StartedAt, g.EndedAt, g.Duration().Milliseconds(),
	)
	return err
}

type moveRow struct {
	Notation  string `json:"notation"`
	Elapsed   int    `json:"elapsed"`
	Remaining int    `json:"remaining"`
}

func movesJSON(g Game) (string, error) {
	rows := make([]moveRow, 0, len(g.Records))
	for _, m := range g.Records {
		rows = append(rows, moveRow{Notation: m.Notation, Elapsed: m.ElapsedSeconds, Remaining: m.RemainingAfter})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
