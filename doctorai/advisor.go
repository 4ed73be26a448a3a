package doctorai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"harvesthub/utils"
)

var ErrNotConfigured = errors.New("Gemini API key is not configured")

const (
	DefaultLanguage = "hinglish"
	fallbackReply   = "Sorry, I couldn't generate a response. Please try again."
)

var languagePrompts = map[string]string{
	"hinglish": "Respond in simple Hindi-English mix (Hinglish) that farmers can easily understand.",
	"hindi":    "Respond only in Hindi (हिंदी) language. Use simple and clear Hindi that farmers can easily understand.",
	"english":  "Respond only in English language. Use simple and clear English that farmers can easily understand.",
	"punjabi":  "Respond only in Punjabi (ਪੰਜਾਬੀ) language. Use simple and clear Punjabi that farmers can easily understand.",
	"tamil":    "Respond only in Tamil (தமிழ்) language. Use simple and clear Tamil that farmers can easily understand.",
	"telugu":   "Respond only in Telugu (తెలుగు) language. Use simple and clear Telugu that farmers can easily understand.",
}

// Languages lists the supported reply languages.
func Languages() []string {
	return []string{"hinglish", "hindi", "english", "punjabi", "tamil", "telugu"}
}

const systemTemplate = `You are HarvestHub AI Expert, an intelligent and experienced agricultural advisor. Your role is to provide practical, actionable farming advice to help farmers succeed.

IMPORTANT GUIDELINES:
- Give specific, detailed answers based on the farmer's question
- Provide step-by-step solutions when applicable
- Include practical tips, dos and don'ts
- Use examples relevant to Indian farming context
- Be conversational and friendly, not robotic
- If asked about a specific crop, provide crop-specific advice
- Include preventive measures and best practices
- Mention local/regional considerations when relevant
- Keep responses informative but not overly long (2-4 paragraphs typically)
- %s

DO NOT just list what you can help with. Instead, directly answer the question with useful information.`

// SystemPrompt returns the advisor instruction for a language, falling back
// to Hinglish for unknown codes.
func SystemPrompt(language string) string {
	instr, ok := languagePrompts[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		instr = languagePrompts[DefaultLanguage]
	}
	return fmt.Sprintf(systemTemplate, instr)
}

func questionPrompt(question string) string {
	return "Farmer's Question: " + question + "\n\nProvide a helpful, detailed response:"
}

// Advisor answers farming questions. A nil generator means the API key is
// missing; every call then fails with ErrNotConfigured.
type Advisor struct {
	gen Generator
}

func NewAdvisor(gen Generator) *Advisor {
	return &Advisor{gen: gen}
}

func (a *Advisor) Answer(ctx context.Context, question, language string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", utils.Validation("Question is required")
	}
	if a.gen == nil {
		return "", ErrNotConfigured
	}
	reply, err := a.gen.Generate(ctx, SystemPrompt(language), questionPrompt(question))
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return fallbackReply, nil
	}
	return reply, nil
}
