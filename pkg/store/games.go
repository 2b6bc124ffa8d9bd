package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
)

// GameRecord is one stored game with its metadata and move list.
type GameRecord struct {
	ID       string
	White    string
	Black    string
	Result   graph.GameResult
	PlayedAt time.Time
	Plies    []graph.Ply
}

// GameFilter narrows which games are loaded. The zero value loads all.
type GameFilter struct {
	Player   string // match the player name as white or black
	Color    string // "white" or "black"; requires Player
	Since    time.Time
	Until    time.Time
	MaxPlies int // trim each game's move list; 0 keeps everything
	Limit    int
}

// SaveGame inserts a game and its moves in one transaction. Re-importing
// an existing game id is an error; callers dedupe upstream.
func (s *Store) SaveGame(ctx context.Context, rec GameRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("game id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (game_id, white, black, result, played_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.White, rec.Black, string(rec.Result), rec.PlayedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert game %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO moves (game_id, ply, san, fen) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare moves: %w", err)
	}
	defer stmt.Close()

	for i, p := range rec.Plies {
		if _, err := stmt.ExecContext(ctx, rec.ID, i, p.SAN, p.FEN); err != nil {
			return fmt.Errorf("insert move %d of %s: %w", i, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Games loads move sequences for the graph builder, oldest first.
func (s *Store) Games(ctx context.Context, f GameFilter) ([]graph.Game, error) {
	recs, err := s.Records(ctx, f)
	if err != nil {
		return nil, err
	}
	games := make([]graph.Game, len(recs))
	for i, r := range recs {
		games[i] = graph.Game{Result: r.Result, Plies: r.Plies}
	}
	return games, nil
}

// Records loads full game records, oldest first.
func (s *Store) Records(ctx context.Context, f GameFilter) ([]GameRecord, error) {
	query := `SELECT game_id, white, black, result, played_at FROM games`
	var args []any
	var where []string
	if f.Player != "" {
		switch f.Color {
		case "white":
			where = append(where, "white = ?")
			args = append(args, f.Player)
		case "black":
			where = append(where, "black = ?")
			args = append(args, f.Player)
		case "":
			where = append(where, "(white = ? OR black = ?)")
			args = append(args, f.Player, f.Player)
		default:
			return nil, fmt.Errorf("unknown color filter: %s", f.Color)
		}
	}
	if !f.Since.IsZero() {
		where = append(where, "played_at >= ?")
		args = append(args, f.Since.UTC())
	}
	if !f.Until.IsZero() {
		where = append(where, "played_at < ?")
		args = append(args, f.Until.UTC())
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY played_at, game_id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var recs []GameRecord
	for rows.Next() {
		var r GameRecord
		var result string
		if err := rows.Scan(&r.ID, &r.White, &r.Black, &result, &r.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		r.Result = graph.GameResult(result)
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate games: %w", err)
	}

	for i := range recs {
		plies, err := s.loadPlies(ctx, recs[i].ID, f.MaxPlies)
		if err != nil {
			return nil, err
		}
		recs[i].Plies = plies
	}
	return recs, nil
}

func (s *Store) loadPlies(ctx context.Context, gameID string, maxPlies int) ([]graph.Ply, error) {
	query := `SELECT san, fen FROM moves WHERE game_id = ? ORDER BY ply`
	args := []any{gameID}
	if maxPlies > 0 {
		query += " LIMIT ?"
		args = append(args, maxPlies)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query moves for %s: %w", gameID, err)
	}
	defer rows.Close()

	var plies []graph.Ply
	for rows.Next() {
		var p graph.Ply
		if err := rows.Scan(&p.SAN, &p.FEN); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		plies = append(plies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves for %s: %w", gameID, err)
	}
	return plies, nil
}

// CountGames returns the number of stored games.
func (s *Store) CountGames(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

// DeleteGame removes a game and, via the foreign key cascade, its moves.
func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("game %s not found", gameID)
	}
	return nil
}
