package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is returned for lines that do not match the
	// GAME_ID PLAYER_ID ACTION [PARAMS...] shape.
	ErrMalformed = errors.New("commands: malformed command line")

	// ErrUnknownAction is returned for unrecognized action words.
	ErrUnknownAction = errors.New("commands: unknown action")
)

// ParseLine parses one wire line of the form
//
//	GAME_ID PLAYER_ID ACTION [PARAMS...]
//
// into the typed command for the action. Actions are matched
// case-insensitively.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	header := Header{Game: fields[0], Player: fields[1]}
	action := Kind(strings.ToUpper(fields[2]))
	params := fields[3:]

	switch action {
	case KindHello:
		return Hello{header}, nil
	case KindCreate:
		return Create{header}, nil
	case KindJoin:
		return Join{header}, nil
	case KindLeave:
		return Leave{header}, nil
	case KindStart:
		return Start{header}, nil
	case KindCall:
		return Call{header}, nil
	case KindCheck:
		return Check{header}, nil
	case KindFold:
		return Fold{header}, nil
	case KindStatus:
		return Status{header}, nil
	case KindShow:
		return Show{header}, nil
	case KindQuit:
		return Quit{header}, nil

	case KindBet:
		amount, err := parseAmount(params)
		if err != nil {
			return nil, err
		}
		return Bet{Header: header, Amount: amount}, nil

	case KindRaise:
		amount, err := parseAmount(params)
		if err != nil {
			return nil, err
		}
		return Raise{Header: header, Amount: amount}, nil

	case KindDraw:
		discards := make([]int, 0, len(params))
		for _, p := range params {
			idx, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("%w: bad card index %q", ErrMalformed, p)
			}
			discards = append(discards, idx)
		}
		return Draw{Header: header, Discards: discards}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, fields[2])
	}
}

func parseAmount(params []string) (int, error) {
	if len(params) != 1 {
		return 0, fmt.Errorf("%w: expected one amount parameter", ErrMalformed)
	}
	amount, err := strconv.Atoi(params[0])
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("%w: bad amount %q", ErrMalformed, params[0])
	}
	return amount, nil
}
