package service_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muski85/ai-therapist-agent22-backend-clean/common/id"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/queue"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/service"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/store"
)

var _ = Describe("ChatService", func() {
	var (
		svc       service.ChatService
		sessions  *mockChatSessionStore
		llmClient *mockLLM
		events    *mockProducer
		ctx       context.Context
	)

	const (
		sessionID int64 = 100
		userID    int64 = 42
		otherUser int64 = 99
	)

	activeSession := func() *model.ChatSession {
		return &model.ChatSession{
			ID:     sessionID,
			UserID: userID,
			Status: model.SessionStatusActive,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		sessions = &mockChatSessionStore{}
		llmClient = &mockLLM{}
		events = &mockProducer{}

		err := id.Init(1)
		Expect(err).NotTo(HaveOccurred())

		svc = service.NewChatService(sessions, llmClient, events)
	})

	Describe("CreateSession", func() {
		It("creates an active session owned by the caller", func() {
			var captured *model.ChatSession
			sessions.createFn = func(_ context.Context, s *model.ChatSession) error {
				captured = s
				return nil
			}

			session, err := svc.CreateSession(ctx, userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(session.ID).NotTo(BeZero())
			Expect(session.UserID).To(Equal(userID))
			Expect(session.Status).To(Equal(model.SessionStatusActive))
			Expect(session.StartTime).NotTo(BeZero())
			Expect(captured).To(Equal(session))
		})

		It("rejects anonymous callers", func() {
			_, err := svc.CreateSession(ctx, 0)
			Expect(err).To(MatchError(service.ErrUnauthenticated))
		})
	})

	Describe("GetSession", func() {
		It("returns the session when the caller owns it", func() {
			sessions.getByIDFn = func(_ context.Context, id int64) (*model.ChatSession, error) {
				Expect(id).To(Equal(sessionID))
				return activeSession(), nil
			}

			session, err := svc.GetSession(ctx, sessionID, userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(session.ID).To(Equal(sessionID))
		})

		It("maps a missing session to ErrSessionNotFound", func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.GetSession(ctx, sessionID, userID)
			Expect(err).To(MatchError(service.ErrSessionNotFound))
		})

		It("refuses sessions owned by someone else", func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return activeSession(), nil
			}

			_, err := svc.GetSession(ctx, sessionID, otherUser)
			Expect(err).To(MatchError(service.ErrNotSessionOwner))
		})
	})

	Describe("DeleteSession", func() {
		It("checks ownership before deleting", func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return activeSession(), nil
			}
			deleted := false
			sessions.deleteFn = func(_ context.Context, id int64) error {
				deleted = true
				Expect(id).To(Equal(sessionID))
				return nil
			}

			Expect(svc.DeleteSession(ctx, sessionID, userID)).To(Succeed())
			Expect(deleted).To(BeTrue())
		})

		It("does not delete when the caller is not the owner", func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return activeSession(), nil
			}
			sessions.deleteFn = func(_ context.Context, _ int64) error {
				Fail("delete should not be called")
				return nil
			}

			err := svc.DeleteSession(ctx, sessionID, otherUser)
			Expect(err).To(MatchError(service.ErrNotSessionOwner))
		})
	})

	Describe("SendMessage", func() {
		validAnalysis := `{"emotionalState": "anxious", "themes": ["work"], "riskLevel": 2, "recommendedApproach": "grounding", "progressIndicators": ["opened up"]}`

		llmReturns := func(analysis, reply string) {
			llmClient.completeFn = func(_ context.Context, prompt string) (string, error) {
				if strings.Contains(prompt, "JSON") {
					return analysis, nil
				}
				return reply, nil
			}
		}

		BeforeEach(func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return activeSession(), nil
			}
		})

		It("rejects empty and whitespace-only messages without touching the store", func() {
			_, err := svc.SendMessage(ctx, sessionID, userID, "   \n\t")
			Expect(err).To(MatchError(service.ErrEmptyMessage))
			Expect(sessions.appendCalls).To(BeZero())
			Expect(llmClient.completeCalls).To(BeZero())
		})

		It("rejects anonymous callers", func() {
			_, err := svc.SendMessage(ctx, sessionID, 0, "hello")
			Expect(err).To(MatchError(service.ErrUnauthenticated))
		})

		It("refuses to append to a session owned by someone else", func() {
			_, err := svc.SendMessage(ctx, sessionID, otherUser, "hello")
			Expect(err).To(MatchError(service.ErrNotSessionOwner))
			Expect(sessions.appendCalls).To(BeZero())
		})

		It("appends the user turn before the assistant turn with the right content", func() {
			var appended []model.ChatMessage
			sessions.appendFn = func(_ context.Context, msg *model.ChatMessage) error {
				appended = append(appended, *msg)
				return nil
			}
			llmReturns(validAnalysis, "That sounds really hard.")

			result, err := svc.SendMessage(ctx, sessionID, userID, "I feel anxious about work")

			Expect(err).NotTo(HaveOccurred())
			Expect(appended).To(HaveLen(2))
			Expect(appended[0].Role).To(Equal(model.RoleUser))
			Expect(appended[0].Content).To(Equal("I feel anxious about work"))
			Expect(appended[0].SessionID).To(Equal(sessionID))
			Expect(appended[0].Metadata).To(BeNil())
			Expect(appended[1].Role).To(Equal(model.RoleAssistant))
			Expect(appended[1].Content).To(Equal("That sounds really hard."))
			Expect(appended[1].Metadata).NotTo(BeNil())
			Expect(appended[1].Metadata.Analysis.EmotionalState).To(Equal("anxious"))
			Expect(appended[1].Metadata.Progress.RiskLevel).To(Equal(2))
			Expect(result.Response).To(Equal("That sounds really hard."))
		})

		It("parses a fenced analysis payload", func() {
			var appended []model.ChatMessage
			sessions.appendFn = func(_ context.Context, msg *model.ChatMessage) error {
				appended = append(appended, *msg)
				return nil
			}
			llmReturns("```json\n"+validAnalysis+"\n```", "ok")

			result, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Analysis.RiskLevel).To(Equal(2))
			Expect(appended[1].Metadata.Analysis.Themes).To(ContainElement("work"))
		})

		It("falls back to the default analysis when the model returns prose", func() {
			llmReturns("I think the user is anxious.", "ok")

			result, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Analysis).To(Equal(service.FallbackAnalysis()))
		})

		It("falls back to the fixed reply when the reply call fails", func() {
			llmClient.completeFn = func(_ context.Context, prompt string) (string, error) {
				if strings.Contains(prompt, "JSON") {
					return validAnalysis, nil
				}
				return "", errors.New("upstream timeout")
			}

			result, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Response).To(Equal(service.FallbackReply))
			Expect(result.Analysis.EmotionalState).To(Equal("anxious"))
		})

		It("recovers analysis and reply independently when both calls fail", func() {
			llmClient.completeFn = func(_ context.Context, _ string) (string, error) {
				return "", errors.New("llm unavailable")
			}
			var appended []model.ChatMessage
			sessions.appendFn = func(_ context.Context, msg *model.ChatMessage) error {
				appended = append(appended, *msg)
				return nil
			}

			result, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Response).To(Equal(service.FallbackReply))
			Expect(result.Analysis).To(Equal(service.FallbackAnalysis()))
			Expect(appended).To(HaveLen(2))
		})

		It("surfaces a user-append failure and never calls the model", func() {
			sessions.appendFn = func(_ context.Context, _ *model.ChatMessage) error {
				return errors.New("connection reset")
			}

			_, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("appending user message"))
			Expect(llmClient.completeCalls).To(BeZero())
			Expect(events.publishCalls).To(BeZero())
		})

		It("surfaces an assistant-append failure after the user turn is stored", func() {
			calls := 0
			sessions.appendFn = func(_ context.Context, _ *model.ChatMessage) error {
				calls++
				if calls == 2 {
					return errors.New("connection reset")
				}
				return nil
			}
			llmReturns(validAnalysis, "ok")

			_, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("appending assistant message"))
		})

		It("publishes a session event carrying the new turn and history", func() {
			session := activeSession()
			session.Messages = []model.ChatMessage{
				{ID: 1, SessionID: sessionID, Role: model.RoleUser, Content: "earlier"},
			}
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return session, nil
			}
			var published queue.SessionEvent
			events.publishFn = func(_ context.Context, event queue.SessionEvent) error {
				published = event
				return nil
			}
			llmReturns(validAnalysis, "ok")

			_, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(events.publishCalls).To(Equal(1))
			Expect(published.SessionID).To(Equal(sessionID))
			Expect(published.UserID).To(Equal(userID))
			Expect(published.Message).To(Equal("hello"))
			Expect(published.History).To(HaveLen(2))
		})

		It("swallows a publish failure and still completes the turn", func() {
			events.publishFn = func(_ context.Context, _ queue.SessionEvent) error {
				return errors.New("stream unavailable")
			}
			llmReturns(validAnalysis, "ok")

			result, err := svc.SendMessage(ctx, sessionID, userID, "hello")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Response).To(Equal("ok"))
			Expect(sessions.appendCalls).To(Equal(2))
		})
	})

	Describe("GetHistory", func() {
		It("returns the stored messages in order", func() {
			session := activeSession()
			session.Messages = []model.ChatMessage{
				{ID: 1, Role: model.RoleUser, Content: "first"},
				{ID: 2, Role: model.RoleAssistant, Content: "second"},
			}
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return session, nil
			}

			history, err := svc.GetHistory(ctx, sessionID, userID)

			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].Content).To(Equal("first"))
			Expect(history[1].Content).To(Equal("second"))
		})
	})

	Describe("UpdateStatus", func() {
		It("updates the status for the owner", func() {
			sessions.getByIDFn = func(_ context.Context, _ int64) (*model.ChatSession, error) {
				return activeSession(), nil
			}
			var got model.SessionStatus
			sessions.updateStatusFn = func(_ context.Context, _ int64, status model.SessionStatus) error {
				got = status
				return nil
			}

			err := svc.UpdateStatus(ctx, sessionID, userID, model.SessionStatusCompleted)

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(model.SessionStatusCompleted))
		})
	})
})
