package mines

import (
	"bytes"
	"encoding/gob"
)

// Session is one playthrough: the parameters it was created with and the
// engine they drive. Mines are laid out on the first reveal.
type Session struct {
	Params GameParams
	Engine
}

func NewGame(params GameParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Session{Params: params}
	s.reset()
	return s, nil
}

func (s *Session) reset() {
	width, height, mineCount := s.Params.Unpack()
	s.Engine = *NewEngine(width, height, mineCount)
}

// RevealAt opens x, y. The first in-bounds reveal of a session places the
// mines around it.
func (s *Session) RevealAt(x, y int, r Rand) error {
	switch {
	case s.Status.Over():
		return nil
	case s.Status == AwaitingFirstMove:
		if !s.Board.InBounds(x, y) {
			return nil
		}
		if err := s.Start(x, y, r); err != nil {
			return err
		}
	}
	s.Reveal(x, y)
	return nil
}

func (s *Session) FlagAt(x, y int) error {
	switch {
	case s.Status.Over():
		return ErrGameOver
	case s.Status == AwaitingFirstMove:
		return ErrAwaitingFirstMove
	}
	s.ToggleFlag(x, y)
	return nil
}

// Restart throws the board away and starts over with the same parameters.
func (s *Session) Restart() {
	s.reset()
}

func DecodeSession(buf []byte) (*Session, error) {
	var s Session
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
