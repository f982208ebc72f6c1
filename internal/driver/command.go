// Package driver runs scripted commands against a linkedqueue.Queue and
// checks the results, the way an interactive test harness would.
package driver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidNArg      = errors.New("invalid number of arguments")
	ErrNotInt           = errors.New("value is not a non-negative integer")
	ErrUnbalancedQuotes = errors.New("unbalanced quotes")
)

type Kind byte

const (
	CmdNew Kind = iota
	CmdFree
	CmdInsertHead
	CmdInsertTail
	CmdRemoveHead
	CmdRemoveTail
	CmdSize
	CmdDeleteMid
	CmdDeleteDup
	CmdSwap
	CmdReverse
	CmdSort
	CmdShow
	CmdFail
)

var names = map[string]Kind{
	"new":     CmdNew,
	"free":    CmdFree,
	"ih":      CmdInsertHead,
	"it":      CmdInsertTail,
	"rh":      CmdRemoveHead,
	"rt":      CmdRemoveTail,
	"size":    CmdSize,
	"dm":      CmdDeleteMid,
	"dedup":   CmdDeleteDup,
	"swap":    CmdSwap,
	"reverse": CmdReverse,
	"sort":    CmdSort,
	"show":    CmdShow,
	"fail":    CmdFail,
}

// Command is one parsed script line.
type Command struct {
	Kind Kind
	Name string

	Value    string // ih, it: text to insert; rh, rt: expected text
	HasValue bool
	Count    int // ih, it: repetitions; size: expected size; fail: percent
	HasCount bool
}

// Parse parses a single script line. Blank lines and lines starting with '#'
// yield a nil command and no error.
func Parse(line string) (*Command, error) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return nil, nil
	}
	args, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, nil
	}

	name := strings.ToLower(args[0])
	kind, ok := names[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCommand, args[0])
	}
	cmd := &Command{Kind: kind, Name: name}
	args = args[1:]

	switch kind {
	case CmdInsertHead, CmdInsertTail:
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w for '%s'", ErrInvalidNArg, name)
		}
		cmd.Value, cmd.HasValue = args[0], true
		cmd.Count = 1
		if len(args) == 2 {
			if cmd.Count, err = parseCount(args[1]); err != nil {
				return nil, err
			}
			cmd.HasCount = true
		}
	case CmdRemoveHead, CmdRemoveTail:
		if len(args) > 1 {
			return nil, fmt.Errorf("%w for '%s'", ErrInvalidNArg, name)
		}
		if len(args) == 1 {
			cmd.Value, cmd.HasValue = args[0], true
		}
	case CmdSize:
		if len(args) > 1 {
			return nil, fmt.Errorf("%w for '%s'", ErrInvalidNArg, name)
		}
		if len(args) == 1 {
			if cmd.Count, err = parseCount(args[0]); err != nil {
				return nil, err
			}
			cmd.HasCount = true
		}
	case CmdFail:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w for '%s'", ErrInvalidNArg, name)
		}
		if cmd.Count, err = parseCount(args[0]); err != nil {
			return nil, err
		}
		cmd.HasCount = true
	default:
		if len(args) != 0 {
			return nil, fmt.Errorf("%w for '%s'", ErrInvalidNArg, name)
		}
	}

	return cmd, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: '%s'", ErrNotInt, s)
	}
	return n, nil
}

// tokenize splits line on whitespace. Double quotes group words and allow
// empty arguments.
func tokenize(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\r' || r == '\n'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, ErrUnbalancedQuotes
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
