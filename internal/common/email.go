package common

import (
	"context"
	"sync"
)

// EmailSender delivers transactional email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// InMemoryEmail records sent messages for tests.
type InMemoryEmail struct {
	mu   sync.Mutex
	Sent []EmailMessage
}

type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

func (m *InMemoryEmail) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, EmailMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *InMemoryEmail) Messages() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// NopEmailSender drops every message. Used when email delivery is disabled.
type NopEmailSender struct{}

func (NopEmailSender) Send(context.Context, string, string, string) error { return nil }
