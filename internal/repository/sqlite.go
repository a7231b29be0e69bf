package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/vancomm/minefield/internal/mines"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS player (
	player_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash BLOB NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_session (
	game_session_id TEXT PRIMARY KEY,
	player_id       INTEGER REFERENCES player (player_id) ON DELETE SET NULL,
	width           INTEGER NOT NULL,
	height          INTEGER NOT NULL,
	mine_count      INTEGER NOT NULL,
	status          TEXT NOT NULL,
	state           BLOB NOT NULL,
	created_at      INTEGER NOT NULL,
	started_at      INTEGER,
	ended_at        INTEGER
);

CREATE INDEX IF NOT EXISTS game_session_won_idx
	ON game_session (width, height, mine_count)
	WHERE status = 'won';
`

// SQLite stores timestamps as unix milliseconds.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func toMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := time.UnixMilli(n.Int64).UTC()
	return &t
}

func (s *SQLite) CreateGameSession(ctx context.Context, gs *GameSession) error {
	state, err := gs.Session.Bytes()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_session (
			game_session_id, player_id, width, height, mine_count,
			status, state, created_at, started_at, ended_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		gs.GameSessionID.String(),
		gs.PlayerID,
		gs.Session.Params.Width,
		gs.Session.Params.Height,
		gs.Session.Params.MineCount,
		gs.Session.Status.String(),
		state,
		gs.CreatedAt.UnixMilli(),
		toMillis(gs.StartedAt),
		toMillis(gs.EndedAt),
	)
	return err
}

func (s *SQLite) FetchGameSession(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	var (
		gs        = &GameSession{GameSessionID: id}
		playerID  sql.NullInt64
		state     []byte
		createdAt int64
		startedAt sql.NullInt64
		endedAt   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT player_id, state, created_at, started_at, ended_at
		FROM game_session
		WHERE game_session_id = ?;`,
		id.String(),
	).Scan(&playerID, &state, &createdAt, &startedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if gs.Session, err = mines.DecodeSession(state); err != nil {
		return nil, err
	}
	if playerID.Valid {
		gs.PlayerID = &playerID.Int64
	}
	gs.CreatedAt = time.UnixMilli(createdAt).UTC()
	gs.StartedAt = fromMillis(startedAt)
	gs.EndedAt = fromMillis(endedAt)
	return gs, nil
}

func (s *SQLite) UpdateGameSession(ctx context.Context, gs *GameSession) error {
	state, err := gs.Session.Bytes()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE game_session
		SET status = ?, state = ?, started_at = ?, ended_at = ?
		WHERE game_session_id = ?;`,
		gs.Session.Status.String(),
		state,
		toMillis(gs.StartedAt),
		toMillis(gs.EndedAt),
		gs.GameSessionID.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Highscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		width,
		height,
		mine_count,
		ended_at - started_at AS playtime_ms,
		ended_at
	FROM game_session
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		status = 'won'
		AND started_at IS NOT NULL
		AND ended_at IS NOT NULL`

	var args []any
	if filter.Username != nil {
		query += " AND username = ?"
		args = append(args, *filter.Username)
	}
	if filter.Params != nil {
		query += " AND width = ? AND height = ? AND mine_count = ?"
		args = append(args, filter.Params.Width, filter.Params.Height, filter.Params.MineCount)
	}
	query += " ORDER BY playtime_ms, ended_at LIMIT ?;"
	args = append(args, filter.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]Highscore, 0)
	for rows.Next() {
		var (
			h        Highscore
			id       string
			username sql.NullString
			endedAt  int64
		)
		if err := rows.Scan(
			&id, &username, &h.Width, &h.Height, &h.MineCount, &h.PlaytimeMs, &endedAt,
		); err != nil {
			return nil, err
		}
		if h.GameSessionID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if username.Valid {
			h.Username = &username.String
		}
		h.EndedAt = time.UnixMilli(endedAt).UTC()
		res = append(res, h)
	}
	return res, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *SQLite) CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error) {
	createdAt := s.now().UTC().Truncate(time.Millisecond)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO player (username, password_hash, created_at)
		VALUES (?, ?, ?);`,
		username, passwordHash, createdAt.UnixMilli(),
	)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	player := &Player{
		PlayerID:     id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}
	return player, nil
}

func (s *SQLite) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	var (
		p         Player
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT player_id, username, password_hash, created_at
		FROM player
		WHERE username = ?;`,
		username,
	).Scan(&p.PlayerID, &p.Username, &p.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
