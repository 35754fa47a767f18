package session

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Prompts written before each field is read.
const (
	PromptName     = "Please enter a suburb name: "
	PromptPostcode = "Please enter the postcode: "
)

// Option configures a Session.
type Option func(*Session)

// WithRenderer replaces the text renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithPromptWriter sends prompts to w instead of the output writer.
func WithPromptWriter(w io.Writer) Option {
	return func(s *Session) {
		s.prompts = w
	}
}

// WithID sets the session id used in log fields.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// Stats counts the queries handled by a session, keyed by outcome.
type Stats map[Status]int

// Session runs the prompt loop over a line-oriented reader.
type Session struct {
	id       string
	resolver *Resolver
	renderer Renderer
	in       io.Reader
	out      io.Writer
	prompts  io.Writer
	stats    Stats
	log      *zap.Logger

	lines   chan string
	readErr error
}

var errInterrupted = eris.New("session: interrupted")

// New creates a Session reading queries from in and writing to out.
func New(resolver *Resolver, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		id:       uuid.New().String(),
		resolver: resolver,
		renderer: TextRenderer{},
		in:       in,
		out:      out,
		stats:    Stats{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompts == nil {
		s.prompts = out
	}
	s.log = zap.L().With(
		zap.String("component", "session"),
		zap.String("session_id", s.id),
	)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Stats returns the per-outcome query counts so far.
func (s *Session) Stats() Stats { return s.stats }

// Run prompts for a suburb name and postcode, resolves them, and renders the
// outcome until both fields are empty, input ends, or ctx is done. End of
// input reads as an empty field. Cancelling ctx returns nil even while a read
// is blocked.
func (s *Session) Run(ctx context.Context) error {
	s.log.Debug("session started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.lines = make(chan string)
	go s.scan(ctx)

	for {
		name, postcode, err := s.ask(ctx)
		if eris.Is(err, errInterrupted) {
			s.log.Info("session interrupted", zap.Error(ctx.Err()))
			return nil
		}
		if err != nil {
			return err
		}

		out := s.resolver.Resolve(name, postcode)
		s.stats[out.Status]++
		s.log.Debug("query resolved",
			zap.String("name", out.Query.Name),
			zap.String("postcode", out.Query.Postcode),
			zap.Stringer("status", out.Status),
			zap.Int("nearby", len(out.Results.Nearby)),
			zap.Int("fringe", len(out.Results.Fringe)),
		)

		if out.Status == StatusTerminate {
			s.log.Debug("session finished", zap.Int("queries", s.queries()))
			return nil
		}

		if err := s.renderer.Render(s.out, out); err != nil {
			return err
		}
	}
}

// ask prompts for and reads one name and postcode pair.
func (s *Session) ask(ctx context.Context) (name, postcode string, err error) {
	if ctx.Err() != nil {
		return "", "", errInterrupted
	}
	if err := s.prompt(PromptName); err != nil {
		return "", "", err
	}
	if name, err = s.readLine(ctx); err != nil {
		return "", "", err
	}
	if err := s.prompt(PromptPostcode); err != nil {
		return "", "", err
	}
	if postcode, err = s.readLine(ctx); err != nil {
		return "", "", err
	}
	return name, postcode, nil
}

// scan feeds input lines to s.lines until input ends or ctx is done. readErr
// is set before s.lines is closed.
func (s *Session) scan(ctx context.Context) {
	defer close(s.lines)
	sc := bufio.NewScanner(s.in)
	for sc.Scan() {
		select {
		case s.lines <- strings.TrimSuffix(sc.Text(), "\r"):
		case <-ctx.Done():
			return
		}
	}
	s.readErr = sc.Err()
}

func (s *Session) prompt(p string) error {
	if _, err := io.WriteString(s.prompts, p); err != nil {
		return eris.Wrap(err, "session: write prompt")
	}
	return nil
}

// readLine returns the next line without its terminator, or "" at end of input.
func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", errInterrupted
	case line, ok := <-s.lines:
		if ok {
			return line, nil
		}
		if s.readErr != nil {
			return "", eris.Wrap(s.readErr, "session: read input")
		}
		return "", nil
	}
}

func (s *Session) queries() int {
	n := 0
	for st, c := range s.stats {
		if st != StatusTerminate {
			n += c
		}
	}
	return n
}
