package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vancomm/minefield/internal/repository"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0, // get
	"o": 2, // open x y
	"c": 2, // chord x y
	"f": 2, // flag x y
	"r": 0, // restart
}

type command struct {
	name string
	x, y int
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("command %q takes %d arguments", parts[0], nargs)
	}
	c := command{name: parts[0]}
	if nargs == 2 {
		var err error
		if c.x, err = strconv.Atoi(parts[1]); err != nil {
			return command{}, errors.New("first argument must be an int")
		}
		if c.y, err = strconv.Atoi(parts[2]); err != nil {
			return command{}, errors.New("second argument must be an int")
		}
	}
	return c, nil
}

func (g GameHandler) executeCommand(
	ctx context.Context, id uuid.UUID, requester *int64, c command,
) (*repository.GameSession, error) {
	switch c.name {
	case "o", "c":
		return g.games.RevealAt(ctx, id, requester, c.x, c.y)
	case "f":
		return g.games.FlagAt(ctx, id, requester, c.x, c.y)
	case "r":
		return g.games.Restart(ctx, id, requester)
	default:
		return g.games.Fetch(ctx, id, requester)
	}
}
