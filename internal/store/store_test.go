// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nyaya-tui/internal/api"
	"github.com/jeranaias/nyaya-tui/internal/model"
)

// fakeBackend scripts chat and analyze responses. The optional gate
// channel holds requests open so tests can observe in-flight state.
type fakeBackend struct {
	mu       sync.Mutex
	chatErr  error
	analyze  string
	gate     chan struct{}
	requests []string
}

func (f *fakeBackend) Chat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, message)
	gate := f.gate
	err := f.chatErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &api.ChatResponse{
		Response: "answer to: " + message,
		Sources:  []model.Source{{Type: "case", Title: "State of Maharashtra v. Example"}},
	}, nil
}

func (f *fakeBackend) AnalyzeDocument(ctx context.Context, filename string, r io.Reader) (*api.AnalysisResponse, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.mu.Lock()
	err := f.chatErr
	analysis := f.analyze
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &api.AnalysisResponse{Analysis: analysis}, nil
}

func TestSendMessageSuccess(t *testing.T) {
	s := New(&fakeBackend{})

	msg, err := s.SendMessage(context.Background(), "What is anticipatory bail?")
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, model.RoleUser, msgs[0].Role)
	require.Equal(t, "What is anticipatory bail?", msgs[0].Content)
	require.Equal(t, model.RoleAssistant, msgs[1].Role)
	require.Equal(t, "answer to: What is anticipatory bail?", msgs[1].Content)
	require.Len(t, msgs[1].Sources, 1)
	require.Same(t, msgs[1], msg)
	require.False(t, s.Loading())
}

func TestSendMessageFailure(t *testing.T) {
	backend := &fakeBackend{chatErr: fmt.Errorf("%w: connection refused", api.ErrUnavailable)}
	s := New(backend)

	msg, err := s.SendMessage(context.Background(), "hello")
	require.ErrorIs(t, err, api.ErrUnavailable)

	// The failure still produced exactly two messages.
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "hello", msgs[0].Content)
	require.Equal(t, FallbackText, msgs[1].Content)
	require.Equal(t, "unavailable", msgs[1].ErrorKind)
	require.True(t, msg.IsError())
	require.False(t, s.Loading())
}

func TestSendMessageEmpty(t *testing.T) {
	s := New(&fakeBackend{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.SendMessage(context.Background(), text)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	require.Equal(t, 0, s.MessageCount())
}

func TestSendMessageTrimsWhitespace(t *testing.T) {
	s := New(&fakeBackend{})
	_, err := s.SendMessage(context.Background(), "  question  \n")
	require.NoError(t, err)
	require.Equal(t, "question", s.Messages()[0].Content)
}

func TestLoadingWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	s := New(&fakeBackend{gate: gate})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SendMessage(context.Background(), "slow question")
	}()

	require.Eventually(t, s.Loading, time.Second, time.Millisecond,
		"Loading should be true while the request is open")

	close(gate)
	<-done
	require.False(t, s.Loading())
}

func TestOverlappingSendsBothLand(t *testing.T) {
	gate := make(chan struct{})
	s := New(&fakeBackend{gate: gate})

	var wg sync.WaitGroup
	for _, q := range []string{"first question", "second question"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			s.SendMessage(context.Background(), q)
		}(q)
	}

	// Wait for both user messages to appear, then release both replies.
	require.Eventually(t, func() bool { return s.MessageCount() == 2 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	msgs := s.Messages()
	require.Len(t, msgs, 4)

	contents := make(map[string]bool)
	for _, m := range msgs {
		contents[m.Content] = true
	}
	for _, want := range []string{
		"first question",
		"second question",
		"answer to: first question",
		"answer to: second question",
	} {
		require.True(t, contents[want], "missing %q", want)
	}

	// No duplicate IDs across the interleaving.
	ids := make(map[string]bool)
	for _, m := range msgs {
		require.False(t, ids[m.ID], "duplicate ID %s", m.ID)
		ids[m.ID] = true
	}
}

func TestClearMessages(t *testing.T) {
	s := New(&fakeBackend{})
	s.SendMessage(context.Background(), "q1")
	require.Equal(t, 2, s.MessageCount())

	s.ClearMessages()
	require.Equal(t, 0, s.MessageCount())

	// Clearing an empty store is fine.
	s.ClearMessages()
	require.Equal(t, 0, s.MessageCount())
}

func TestClearDuringInFlight(t *testing.T) {
	gate := make(chan struct{})
	s := New(&fakeBackend{gate: gate})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SendMessage(context.Background(), "pending question")
	}()

	require.Eventually(t, func() bool { return s.MessageCount() == 1 }, time.Second, time.Millisecond)

	// Clear while the request is open. Must not panic or deadlock.
	s.ClearMessages()
	require.Equal(t, 0, s.MessageCount())

	// The late reply settles into the cleared history.
	close(gate)
	<-done
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, model.RoleAssistant, msgs[0].Role)
}

func TestUploadFileSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rental.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))

	s := New(&fakeBackend{analyze: "This is a rental agreement governed by the Rent Control Act."})
	msg, err := s.UploadFile(context.Background(), path)
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	require.Len(t, msgs[0].Attachments, 1)
	require.Equal(t, "rental.pdf", msgs[0].Attachments[0].Name)
	require.Equal(t, "rental.pdf", msg.FileAnalysis)
	require.Contains(t, msg.Content, "Rent Control Act")
}

func TestUploadFileRejectedBeforeSend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "malware.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))

	s := New(&fakeBackend{})
	_, err := s.UploadFile(context.Background(), path)
	require.ErrorIs(t, err, api.ErrUnsupportedFile)

	// Validation failures append nothing.
	require.Equal(t, 0, s.MessageCount())
}

func TestUploadFileBackendFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notice.txt")
	require.NoError(t, os.WriteFile(path, []byte("legal notice"), 0o644))

	s := New(&fakeBackend{chatErr: fmt.Errorf("%w: 504", api.ErrUnavailable)})
	msg, err := s.UploadFile(context.Background(), path)
	require.Error(t, err)

	require.Equal(t, 2, s.MessageCount())
	require.Equal(t, FallbackText, msg.Content)
	require.Equal(t, "unavailable", msg.ErrorKind)
}

func TestLastAssistantMessage(t *testing.T) {
	s := New(&fakeBackend{})
	require.Nil(t, s.LastAssistantMessage())

	s.SendMessage(context.Background(), "first question")
	s.AddSystemMessage("notice")

	// System notices do not count as answers.
	last := s.LastAssistantMessage()
	require.NotNil(t, last)
	require.Equal(t, "answer to: first question", last.Content)

	// Feedback lands on the live message, not a copy.
	last.ToggleLike()
	require.True(t, s.LastAssistantMessage().Liked)
}

func TestRestoreAndSnapshot(t *testing.T) {
	s := New(&fakeBackend{})
	s.SendMessage(context.Background(), "original")

	snap := s.Snapshot()
	require.Equal(t, 2, snap.MessageCount())

	// Mutating the snapshot does not touch the store.
	snap.Messages[0].Content = "mutated"
	require.Equal(t, "original", s.Messages()[0].Content)

	loaded := model.NewConversation()
	loaded.AddUserMessage("restored question")
	s.Restore(loaded)
	require.Equal(t, 1, s.MessageCount())
	require.Equal(t, "restored question", s.Messages()[0].Content)
}

func TestSendAfterRestoreUsesNewConversation(t *testing.T) {
	s := New(&fakeBackend{})
	s.Restore(model.NewConversation())
	_, err := s.SendMessage(context.Background(), "fresh start")
	require.NoError(t, err)
	require.Equal(t, 2, s.MessageCount())
}
