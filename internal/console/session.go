package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/valpere/nebo/internal/controller"
	"github.com/valpere/nebo/internal/render"
	"github.com/valpere/nebo/pkg/weather"
)

// Controller is the part of controller.Controller the console needs.
type Controller interface {
	ToggleSearch()
	QueryChanged(value string)
	Select(loc weather.Location)
	State() controller.UIState
	Subscribe(fn func(controller.UIState))
}

// Session reads commands from in and redraws the state to out on every change.
type Session struct {
	ctrl   Controller
	in     io.Reader
	out    io.Writer
	logger *zerolog.Logger

	mu sync.Mutex
}

func NewSession(ctrl Controller, in io.Reader, out io.Writer, logger *zerolog.Logger) *Session {
	return &Session{
		ctrl:   ctrl,
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Run blocks until :q, end of input or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.ctrl.Subscribe(s.draw)
	s.draw(s.ctrl.State())

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := s.handle(line); quit {
				return nil
			}
		}
	}
}

func (s *Session) handle(line string) bool {
	state := s.ctrl.State()
	cmd := Parse(line, state.SearchVisible)

	switch cmd.Kind {
	case KindQuit:
		return true
	case KindToggle:
		s.ctrl.ToggleSearch()
	case KindQuery:
		s.ctrl.QueryChanged(cmd.Text)
	case KindSelect:
		if cmd.Index >= len(state.Candidates) {
			s.printf("No candidate %d\n", cmd.Index+1)
			return false
		}
		s.ctrl.Select(state.Candidates[cmd.Index])
	case KindPick:
		i := Pick(cmd.Text, state.Candidates)
		if i < 0 {
			s.printf("No match for %q\n", cmd.Text)
			return false
		}
		s.ctrl.Select(state.Candidates[i])
	default:
		s.logger.Debug().Str("line", line).Msg("Ignoring input")
	}

	return false
}

func (s *Session) draw(state controller.UIState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := render.Write(s.out, state); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render state")
	}
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}
