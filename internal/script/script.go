// Package script runs heap scripts, one command per line:
//
//	new H                      create heap H
//	insert H <key> [label]     insert key, prints the label
//	min H                      prints "<label> <key>" or "empty"
//	extract H                  removes the minimum, prints "<label> <key>"
//	decrease H <label> <key>   lowers the key of label
//	delete H <label>           removes label
//	union H <src>              moves every element of src into H, prints the new size
//	print H                    prints the canonical form of H
//	len H                      prints the number of elements
//	check H                    validates the structure of H
//	drop H                     removes H
//	list                       prints every heap
//
// Blank lines and lines starting with '#' are ignored.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trim21/errgo"

	"binheap/internal/session"
)

type Interpreter struct {
	store *session.Store
	out   io.Writer
	log   zerolog.Logger
}

func New(store *session.Store, out io.Writer) *Interpreter {
	return &Interpreter{
		store: store,
		out:   out,
		log:   log.With().Str("component", "script").Logger(),
	}
}

// Run executes every line of r and stops at the first failing command.
func (i *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		i.log.Trace().Msgf("line %d: %s", line, text)

		if err := i.Exec(text); err != nil {
			return errgo.Wrap(err, fmt.Sprintf("line %d", line))
		}
	}

	if err := scanner.Err(); err != nil {
		return errgo.Wrap(err, "failed to read script")
	}

	return nil
}

var ErrUnknownCommand = errors.New("unknown command")
var ErrArguments = errors.New("wrong number of arguments")

type command struct {
	run     func(i *Interpreter, args []string) (string, error)
	minArgs int
	maxArgs int
}

var commands = map[string]command{
	"new": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		return i.store.Create(args[0])
	}},
	"insert": {minArgs: 2, maxArgs: 3, run: func(i *Interpreter, args []string) (string, error) {
		var label string
		if len(args) == 3 {
			label = args[2]
		}
		return i.store.Insert(args[0], parseKey(args[1]), label)
	}},
	"min": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		el, ok, err := i.store.Min(args[0])
		if err != nil || !ok {
			return "empty", err
		}
		return formatElement(el), nil
	}},
	"extract": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		el, err := i.store.ExtractMin(args[0])
		return formatElement(el), err
	}},
	"decrease": {minArgs: 3, maxArgs: 3, run: func(i *Interpreter, args []string) (string, error) {
		return "ok", i.store.DecreaseKey(args[0], args[1], parseKey(args[2]))
	}},
	"delete": {minArgs: 2, maxArgs: 2, run: func(i *Interpreter, args []string) (string, error) {
		return "ok", i.store.Delete(args[0], args[1])
	}},
	"union": {minArgs: 2, maxArgs: 2, run: func(i *Interpreter, args []string) (string, error) {
		n, err := i.store.Union(args[0], args[1])
		return strconv.Itoa(n), err
	}},
	"print": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		return i.store.Render(args[0])
	}},
	"len": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		n, err := i.store.Len(args[0])
		return strconv.Itoa(n), err
	}},
	"check": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		return "ok", i.store.Check(args[0])
	}},
	"drop": {minArgs: 1, maxArgs: 1, run: func(i *Interpreter, args []string) (string, error) {
		return "ok", i.store.Drop(args[0])
	}},
	"list": {run: func(i *Interpreter, _ []string) (string, error) {
		stats := i.store.List()
		lines := make([]string, len(stats))
		for j, s := range stats {
			lines[j] = s.String()
		}
		return strings.Join(lines, "\n"), nil
	}},
}

// Exec runs one command and writes its result line.
func (i *Interpreter) Exec(text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := commands[fields[0]]
	if !ok {
		return errgo.Wrap(ErrUnknownCommand, fields[0])
	}

	args := fields[1:]
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return errgo.Wrap(ErrArguments, fmt.Sprintf("%s takes %d to %d arguments", fields[0], cmd.minArgs, cmd.maxArgs))
	}

	out, err := cmd.run(i, args)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(i.out, out)

	return err
}

// parseKey returns a float64 when s is a number, s itself otherwise, which
// the store rejects as an invalid key type.
func parseKey(s string) any {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}

	return f
}

func formatElement(el session.Element) string {
	return el.Label + " " + strconv.FormatFloat(el.Key, 'g', -1, 64)
}
