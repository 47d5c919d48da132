// Package mocks provides an in-memory otel.Otel for tests. Spans are kept so a
// test can assert which operations ran and which of them recorded an error.
package mocks

import (
	"context"
	"sync"
	"voyage/infras/otel"
)

type Span struct {
	Scope      string
	Name       string
	Attributes map[string]any
	Errors     []error
	Ended      bool
}

type Recorder struct {
	mu    sync.Mutex
	spans []*Span
}

// NewOtel returns a recorder typed as otel.Otel for tests that ignore spans.
func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	span := &Span{Scope: scopeName, Name: spanName, Attributes: map[string]any{}}

	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()

	return ctx, &scope{recorder: r, span: span}
}

// Span returns the first span with the given name, or nil.
func (r *Recorder) Span(name string) *Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, span := range r.spans {
		if span.Name == name {
			return span
		}
	}

	return nil
}

type scope struct {
	recorder *Recorder
	span     *Span
}

func (s *scope) End() {
	s.recorder.mu.Lock()
	s.span.Ended = true
	s.recorder.mu.Unlock()
}

func (s *scope) TraceError(err error) {
	s.recorder.mu.Lock()
	s.span.Errors = append(s.span.Errors, err)
	s.recorder.mu.Unlock()
}

func (s *scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scope) AddEvent(_ string) {}

func (s *scope) SetAttribute(key string, value any) {
	s.recorder.mu.Lock()
	s.span.Attributes[key] = value
	s.recorder.mu.Unlock()
}

func (s *scope) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}
