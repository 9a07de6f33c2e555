package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sukalov/chordedit/internal/editor"
)

var (
	ErrNoPendingEdit    = errors.New("no pending edit")
	ErrNotExistingToken = errors.New("pending edit does not target an existing chord")
	ErrIndexOutOfRange  = errors.New("line or token index out of range")
)

// Publisher receives the text of the document after every committed edit
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, text string) error

func (f PublisherFunc) Publish(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Session holds one document being edited, the pending chord placement and
// the last text the session emitted. It is safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	parser      *editor.Parser
	publisher   Publisher
	doc         editor.Document
	target      Target
	lastEmitted string
	emitted     bool
}

// New creates a session over the empty document. publisher may be nil.
func New(publisher Publisher) *Session {
	return NewWithParser(editor.DefaultParser(), publisher)
}

// NewWithParser creates a session that parses incoming text with parser
func NewWithParser(parser *editor.Parser, publisher Publisher) *Session {
	if parser == nil {
		parser = editor.DefaultParser()
	}
	return &Session{
		parser:    parser,
		publisher: publisher,
		doc:       editor.NewDocument(),
	}
}

// Load replaces the document with the parsed text. Text equal to what this
// session last emitted is ignored so our own output isn't parsed again.
// It reports whether the document was replaced.
func (s *Session) Load(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emitted && text == s.lastEmitted {
		return false
	}

	s.doc = s.parser.Parse(text)
	s.lastEmitted = text
	s.emitted = true
	s.target = nil
	return true
}

// RequestEdit records the pending chord placement, replacing any previous one
func (s *Session) RequestEdit(target Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validTarget(target) {
		return fmt.Errorf("%v: %w", target, ErrIndexOutOfRange)
	}
	s.target = target
	return nil
}

// Cancel drops the pending edit without touching the document
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = nil
}

// Pending returns the pending edit, if any
func (s *Session) Pending() (Target, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target, s.target != nil
}

// Commit applies chord to the pending target, publishes the new text and
// returns it.
func (s *Session) Commit(ctx context.Context, chord string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return "", ErrNoPendingEdit
	}

	var next editor.Document
	switch t := s.target.(type) {
	case EditExisting:
		next = editor.SetChord(s.doc, t.Line, t.Token, chord)
	case AppendAtEnd:
		next = editor.AppendChord(s.doc, t.Line, chord)
	case InsertBySplit:
		next = editor.SplitAndInsert(s.doc, t.Line, t.Token, t.Offset, chord)
	default:
		return "", fmt.Errorf("unknown edit target %T", t)
	}

	return s.apply(ctx, next)
}

// CommitRemoval removes the chord of the token targeted by an EditExisting edit
func (s *Session) CommitRemoval(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return "", ErrNoPendingEdit
	}
	t, ok := s.target.(EditExisting)
	if !ok {
		return "", ErrNotExistingToken
	}

	return s.apply(ctx, editor.SetChord(s.doc, t.Line, t.Token, ""))
}

// InsertLine adds an empty line after the given index (-1 for the top)
func (s *Session) InsertLine(ctx context.Context, after int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if after < -1 || after >= len(s.doc) {
		return "", fmt.Errorf("line %d: %w", after, ErrIndexOutOfRange)
	}
	return s.apply(ctx, editor.InsertLine(s.doc, after))
}

// RemoveLine deletes the line at index
func (s *Session) RemoveLine(ctx context.Context, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.doc) {
		return "", fmt.Errorf("line %d: %w", index, ErrIndexOutOfRange)
	}
	return s.apply(ctx, editor.RemoveLine(s.doc, index))
}

// Document returns a copy of the current document
func (s *Session) Document() editor.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Text returns the current document as ChordPro text
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return editor.Serialize(s.doc)
}

// apply swaps in the edited document and records its text as emitted in the
// same critical section, then publishes. Callers hold s.mu.
func (s *Session) apply(ctx context.Context, next editor.Document) (string, error) {
	text := editor.Serialize(next)
	s.doc = next
	s.lastEmitted = text
	s.emitted = true
	s.target = nil

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, text); err != nil {
			return text, fmt.Errorf("failed to publish document: %w", err)
		}
	}
	return text, nil
}

func (s *Session) validTarget(target Target) bool {
	switch t := target.(type) {
	case EditExisting:
		_, ok := s.doc.TokenAt(t.Line, t.Token)
		return ok
	case InsertBySplit:
		_, ok := s.doc.TokenAt(t.Line, t.Token)
		return ok
	case AppendAtEnd:
		if t.Line < 0 || t.Line >= len(s.doc) {
			return false
		}
		_, ok := s.doc[t.Line].(editor.ChordLyricLine)
		return ok
	default:
		return false
	}
}
