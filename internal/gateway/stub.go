package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Stub answers from canned replies keyed by feature. Features without a reply
// fail with ErrUnavailable, so an empty Stub makes every report fall back.
type Stub struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   []Request
}

// NewStub creates a stub with the given replies.
func NewStub(replies map[string]string) *Stub {
	if replies == nil {
		replies = map[string]string{}
	}
	return &Stub{replies: replies}
}

// Name returns the gateway identifier.
func (s *Stub) Name() string { return "stub" }

// SetReply sets the raw reply for feature.
func (s *Stub) SetReply(feature, reply string) {
	s.mu.Lock()
	s.replies[feature] = reply
	s.mu.Unlock()
}

// FailWith makes every call return err until cleared with nil.
func (s *Stub) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Calls returns the requests received so far.
func (s *Stub) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}

// Complete records req and returns the canned reply.
func (s *Stub) Complete(ctx context.Context, req Request) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if s.err != nil {
		return nil, s.err
	}
	reply, ok := s.replies[req.Feature]
	if !ok {
		return nil, fmt.Errorf("%w: no stub reply for %s", ErrUnavailable, req.Feature)
	}
	return []byte(reply), nil
}
