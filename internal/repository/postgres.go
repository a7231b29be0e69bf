package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minefield/internal/mines"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

type gameSessionRow struct {
	GameSessionID uuid.UUID  `db:"game_session_id"`
	PlayerID      *int64     `db:"player_id"`
	State         []byte     `db:"state"`
	CreatedAt     time.Time  `db:"created_at"`
	StartedAt     *time.Time `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
}

func (r *gameSessionRow) toGameSession() (*GameSession, error) {
	state, err := mines.DecodeSession(r.State)
	if err != nil {
		return nil, err
	}
	return &GameSession{
		GameSessionID: r.GameSessionID,
		PlayerID:      r.PlayerID,
		Session:       state,
		CreatedAt:     r.CreatedAt,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
	}, nil
}

func sessionArgs(s *GameSession) (pgx.NamedArgs, error) {
	state, err := s.Session.Bytes()
	if err != nil {
		return nil, err
	}
	return pgx.NamedArgs{
		"game_session_id": s.GameSessionID,
		"player_id":       s.PlayerID,
		"width":           s.Session.Params.Width,
		"height":          s.Session.Params.Height,
		"mine_count":      s.Session.Params.MineCount,
		"status":          s.Session.Status.String(),
		"state":           state,
		"created_at":      s.CreatedAt,
		"started_at":      s.StartedAt,
		"ended_at":        s.EndedAt,
	}, nil
}

func (pg *Postgres) CreateGameSession(ctx context.Context, s *GameSession) error {
	args, err := sessionArgs(s)
	if err != nil {
		return err
	}
	_, err = pg.db.Exec(ctx, `
		INSERT INTO game_session (
			game_session_id, player_id, width, height, mine_count,
			status, state, created_at, started_at, ended_at
		)
		VALUES (
			@game_session_id, @player_id, @width, @height, @mine_count,
			@status, @state, @created_at, @started_at, @ended_at
		);`,
		args,
	)
	return err
}

func (pg *Postgres) FetchGameSession(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	rows, _ := pg.db.Query(ctx, `
		SELECT game_session_id, player_id, state, created_at, started_at, ended_at
		FROM game_session
		WHERE game_session_id = $1;`,
		id,
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameSessionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toGameSession()
}

func (pg *Postgres) UpdateGameSession(ctx context.Context, s *GameSession) error {
	args, err := sessionArgs(s)
	if err != nil {
		return err
	}
	tag, err := pg.db.Exec(ctx, `
		UPDATE game_session
		SET status = @status
			, state = @state
			, started_at = @started_at
			, ended_at = @ended_at
			, updated_at = now()
		WHERE game_session_id = @game_session_id;`,
		args,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (f HighscoreFilter) whereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{"limit": f.limit()}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Params != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.Params.Width
		args["height"] = f.Params.Height
		args["mine_count"] = f.Params.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (pg *Postgres) Highscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		width,
		height,
		mine_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		)::float8 * 1000 AS playtime_ms,
		ended_at
	FROM game_session
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		status = 'won'
		AND started_at IS NOT NULL
		AND ended_at IS NOT NULL`

	whereClause, args := filter.whereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}
	query += " ORDER BY playtime_ms, ended_at LIMIT @limit;"

	rows, err := pg.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Highscore, error) {
		var (
			h        Highscore
			playtime float64
		)
		err := row.Scan(
			&h.GameSessionID, &h.Username, &h.Width, &h.Height,
			&h.MineCount, &playtime, &h.EndedAt,
		)
		h.PlaytimeMs = int64(playtime)
		return h, err
	})
}

func (pg *Postgres) CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error) {
	rows, _ := pg.db.Query(ctx, `
		INSERT INTO player (username, password_hash)
		VALUES (@username, @password_hash)
		RETURNING player_id, username, password_hash, created_at;`,
		pgx.NamedArgs{
			"username":      username,
			"password_hash": passwordHash,
		},
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return nil, ErrUsernameTaken
	}
	return player, err
}

func (pg *Postgres) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, _ := pg.db.Query(ctx, `
		SELECT player_id, username, password_hash, created_at
		FROM player
		WHERE username = $1;`,
		username,
	)
	player, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return player, err
}

func (pg *Postgres) Close() error {
	pg.db.Close()
	return nil
}
