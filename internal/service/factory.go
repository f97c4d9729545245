package service

import (
	"github.com/muski85/ai-therapist-agent22-backend-clean/common/llm"
	"github.com/muski85/ai-therapist-agent22-backend-clean/core/config"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/queue"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/store"
)

type Services struct {
	stores    *store.Stores
	llmClient llm.Client
	events    queue.Producer
	jwtCfg    config.JWTConfig
}

func NewServices(stores *store.Stores, llmClient llm.Client, events queue.Producer, jwtCfg config.JWTConfig) *Services {
	return &Services{
		stores:    stores,
		llmClient: llmClient,
		events:    events,
		jwtCfg:    jwtCfg,
	}
}

func (s *Services) Chat() ChatService {
	return NewChatService(s.stores.ChatSessions(), s.llmClient, s.events)
}

func (s *Services) Topics() TopicService {
	return NewTopicService(s.stores.ChatSessions(), s.llmClient)
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.jwtCfg.Secret)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}
