package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minefield/internal/mines"
)

type memorySession struct {
	meta  GameSession
	state []byte
}

// Memory keeps everything in process. Sessions are stored encoded so that
// callers never share a board with the store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]memorySession
	players  map[string]*Player
	nextID   int64
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[uuid.UUID]memorySession),
		players:  make(map[string]*Player),
		now:      time.Now,
	}
}

func (m *Memory) encode(s *GameSession) (memorySession, error) {
	b, err := s.Session.Bytes()
	if err != nil {
		return memorySession{}, err
	}
	meta := *s
	meta.Session = nil
	return memorySession{meta: meta, state: b}, nil
}

func (m *Memory) CreateGameSession(ctx context.Context, s *GameSession) error {
	rec, err := m.encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.GameSessionID] = rec
	return nil
}

func (m *Memory) FetchGameSession(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	m.mu.RLock()
	rec, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	state, err := mines.DecodeSession(rec.state)
	if err != nil {
		return nil, err
	}
	s := rec.meta
	s.Session = state
	return &s, nil
}

func (m *Memory) UpdateGameSession(ctx context.Context, s *GameSession) error {
	rec, err := m.encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.GameSessionID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.GameSessionID] = rec
	return nil
}

func (m *Memory) Highscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	usernames := make(map[int64]string, len(m.players))
	for _, p := range m.players {
		usernames[p.PlayerID] = p.Username
	}

	res := make([]Highscore, 0)
	for id, rec := range m.sessions {
		state, err := mines.DecodeSession(rec.state)
		if err != nil {
			return nil, err
		}
		playtime, ok := rec.meta.Playtime()
		if state.Status != mines.Won || !ok {
			continue
		}
		h := Highscore{
			GameSessionID: id,
			Width:         state.Params.Width,
			Height:        state.Params.Height,
			MineCount:     state.Params.MineCount,
			PlaytimeMs:    playtime.Milliseconds(),
			EndedAt:       *rec.meta.EndedAt,
		}
		if rec.meta.PlayerID != nil {
			if name, ok := usernames[*rec.meta.PlayerID]; ok {
				h.Username = &name
			}
		}
		if filter.match(h) {
			res = append(res, h)
		}
	}

	sortHighscores(res)
	if len(res) > filter.limit() {
		res = res[:filter.limit()]
	}
	return res, nil
}

func (m *Memory) CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[username]; ok {
		return nil, ErrUsernameTaken
	}
	m.nextID++
	p := &Player{
		PlayerID:     m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    m.now().UTC(),
	}
	m.players[username] = p
	c := *p
	return &c, nil
}

func (m *Memory) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[username]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *Memory) Close() error {
	return nil
}
