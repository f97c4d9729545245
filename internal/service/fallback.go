package service

import (
	"strings"
	"unicode"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

// FallbackReply is stored verbatim as the assistant turn when the reply
// generation call fails.
const FallbackReply = "I hear you, and I want you to know that feeling anxious is a very human response. Can you tell me more about what tends to trigger these feelings for you?"

// genericTopic labels sessions with no user message yet.
const genericTopic = "New Chat"

// FallbackAnalysis returns the fixed default analysis substituted when the
// analysis call fails or returns unusable output. Fresh slices each call so
// callers can't mutate shared state.
func FallbackAnalysis() model.Analysis {
	return model.Analysis{
		EmotionalState:      "seeking_support",
		Themes:              []string{"anxiety_management"},
		RiskLevel:           1,
		RecommendedApproach: "cognitive_behavioral",
		ProgressIndicators:  []string{"active_engagement"},
	}
}

type topicRule struct {
	keywords []string
	topic    string
}

// Enumeration order matters: first match wins.
var topicRules = []topicRule{
	{keywords: []string{"anxiety", "anxious", "worried", "worry"}, topic: "Anxiety Support"},
	{keywords: []string{"stress", "stressed", "overwhelmed"}, topic: "Stress Management"},
	{keywords: []string{"sleep", "insomnia", "can't sleep", "tired"}, topic: "Sleep Support"},
	{keywords: []string{"depress", "sad", "hopeless", "down"}, topic: "Depression Support"},
	{keywords: []string{"work", "job", "career", "boss"}, topic: "Work Concerns"},
	{keywords: []string{"relationship", "partner", "boyfriend", "girlfriend", "marriage"}, topic: "Relationship Support"},
	{keywords: []string{"family", "parent", "mother", "father"}, topic: "Family Matters"},
	{keywords: []string{"panic"}, topic: "Panic Attack Support"},
	{keywords: []string{"anger", "angry", "frustrated"}, topic: "Anger Management"},
	{keywords: []string{"lonely", "loneliness", "alone", "isolated"}, topic: "Loneliness Support"},
	{keywords: []string{"confidence", "self-esteem", "insecure"}, topic: "Confidence Building"},
	{keywords: []string{"grief", "loss", "died", "passed away"}, topic: "Grief Support"},
}

// FallbackTopic derives a deterministic topic label from the first user
// message. It is pure and never fails; it is also the substitute used when
// the topic generation call is unavailable or returns unusable output.
func FallbackTopic(messages []model.ChatMessage) string {
	if len(messages) == 0 {
		return genericTopic
	}

	var first *model.ChatMessage
	for i := range messages {
		if messages[i].Role == model.RoleUser {
			first = &messages[i]
			break
		}
	}
	if first == nil {
		return genericTopic
	}

	lowered := strings.ToLower(first.Content)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.topic
			}
		}
	}

	words := strings.Fields(first.Content)
	if len(words) > 3 {
		words = words[:3]
	}
	label := strings.Join(words, " ")
	if label == "" {
		return genericTopic
	}

	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return "Chat: " + string(runes)
}
