package service_test

import (
	"context"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/queue"
)

type mockChatSessionStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.ChatSession, error)
	createFn       func(ctx context.Context, session *model.ChatSession) error
	listByUserFn   func(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error)
	deleteFn       func(ctx context.Context, id int64) error
	appendFn       func(ctx context.Context, msg *model.ChatMessage) error
	listMessagesFn func(ctx context.Context, sessionID int64) ([]model.ChatMessage, error)
	updateTopicFn  func(ctx context.Context, sessionID int64, topic string) error
	updateStatusFn func(ctx context.Context, sessionID int64, status model.SessionStatus) error
	appendCalls    int
}

func (m *mockChatSessionStore) GetByID(ctx context.Context, id int64) (*model.ChatSession, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChatSessionStore) Create(ctx context.Context, session *model.ChatSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockChatSessionStore) ListByUser(ctx context.Context, userID int64) ([]model.ChatSessionSummary, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockChatSessionStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockChatSessionStore) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	m.appendCalls++
	if m.appendFn != nil {
		return m.appendFn(ctx, msg)
	}
	return nil
}

func (m *mockChatSessionStore) ListMessages(ctx context.Context, sessionID int64) ([]model.ChatMessage, error) {
	if m.listMessagesFn != nil {
		return m.listMessagesFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockChatSessionStore) UpdateTopic(ctx context.Context, sessionID int64, topic string) error {
	if m.updateTopicFn != nil {
		return m.updateTopicFn(ctx, sessionID, topic)
	}
	return nil
}

func (m *mockChatSessionStore) UpdateStatus(ctx context.Context, sessionID int64, status model.SessionStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, sessionID, status)
	}
	return nil
}

type mockUserStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn     func(ctx context.Context, user *model.User) error
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockLLM struct {
	completeFn    func(ctx context.Context, prompt string) (string, error)
	completeCalls int
}

func (m *mockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.completeCalls++
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt)
	}
	return "", nil
}

func (m *mockLLM) Model() string {
	return "mock-model"
}

type mockProducer struct {
	publishFn    func(ctx context.Context, event queue.SessionEvent) error
	publishCalls int
}

func (m *mockProducer) Publish(ctx context.Context, event queue.SessionEvent) error {
	m.publishCalls++
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
