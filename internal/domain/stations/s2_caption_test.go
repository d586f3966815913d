package stations

import (
	"context"
	"errors"
	"testing"
)

// scripted caption service: one reply per call
type scriptedCaption struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCaption) Caption(ctx context.Context, image []byte) (string, error) {
	i := s.calls
	s.calls++
	var reply string
	var err error
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return reply, err
}

func TestS2Caption_FirstAttemptSucceeds(t *testing.T) {
	svc := &scriptedCaption{replies: []string{"a dog"}}
	s := NewS2Caption(svc)

	got, err := s.Run(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "a dog" {
		t.Errorf("Run() = %q", got)
	}
	if svc.calls != 1 {
		t.Errorf("calls = %d, want 1", svc.calls)
	}
}

func TestS2Caption_RetriesOnce(t *testing.T) {
	svc := &scriptedCaption{
		replies: []string{"", "a cat"},
		errs:    []error{errors.New("timeout"), nil},
	}
	s := NewS2Caption(svc)

	got, err := s.Run(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "a cat" {
		t.Errorf("Run() = %q", got)
	}
	if svc.calls != 2 {
		t.Errorf("calls = %d, want 2", svc.calls)
	}
}

func TestS2Caption_EmptyReplyCountsAsFailure(t *testing.T) {
	svc := &scriptedCaption{replies: []string{"", ""}}
	s := NewS2Caption(svc)

	if _, err := s.Run(context.Background(), []byte{1}); err == nil {
		t.Fatal("Run() accepted an empty caption")
	}
	if svc.calls != 2 {
		t.Errorf("calls = %d, want 2", svc.calls)
	}
}

func TestS2Caption_BothAttemptsFail(t *testing.T) {
	wantErr := errors.New("service down")
	svc := &scriptedCaption{errs: []error{wantErr, wantErr}}
	s := NewS2Caption(svc)

	if _, err := s.Run(context.Background(), []byte{1}); !errors.Is(err, wantErr) {
		t.Fatalf("Run() error = %v, want %v", err, wantErr)
	}
}
