package store

import (
	"github.com/muski85/ai-therapist-agent22-backend-clean/core/db"
)

type Stores struct {
	db *db.DB
}

func NewStores(database *db.DB) *Stores {
	return &Stores{db: database}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.db)
}

func (s *Stores) ChatSessions() ChatSessionStore {
	return newChatSessionStore(s.db)
}
