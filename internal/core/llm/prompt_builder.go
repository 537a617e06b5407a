package llm

import (
	"fmt"
	"strings"
)

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EmptyKnowledgeMarker menggantikan knowledge base yang masih kosong
const EmptyKnowledgeMarker = "No knowledge base entries yet."

const (
	defaultBusinessName = "an e-commerce business"
	defaultPersonality  = "friendly"
)

// Message adalah satu giliran percakapan sebelumnya
type Message struct {
	Role    string
	Content string
}

// FAQ adalah satu pasangan tanya jawab dari knowledge base
type FAQ struct {
	Question string
	Answer   string
}

// KnowledgeBase adalah input untuk BuildSystemPrompt
type KnowledgeBase struct {
	BusinessName string
	Personality  string
	Language     string
	FAQs         []FAQ
}

// Prompt adalah hasil context builder yang siap dikirim ke provider
type Prompt struct {
	System      string
	Messages    []Message
	Temperature float32
	// Language dipakai untuk memilih bahasa pesan maaf kalau AI gagal
	Language string
}

// BuildSystemPrompt membuat system prompt dari knowledge base
func BuildSystemPrompt(kb *KnowledgeBase) string {
	businessName := kb.BusinessName
	if businessName == "" {
		businessName = defaultBusinessName
	}
	personality := kb.Personality
	if personality == "" {
		personality = defaultPersonality
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are a helpful customer service AI for %q.\n\n", businessName))
	sb.WriteString("Your job is to:\n")
	sb.WriteString("1. Answer customer questions professionally and helpfully\n")
	sb.WriteString("2. Help customers place orders by collecting: product name, quantity, delivery address, and phone number\n")
	sb.WriteString(fmt.Sprintf("3. %s\n", languageInstruction(kb.Language)))
	sb.WriteString(fmt.Sprintf("4. Be %s in your tone\n\n", personality))

	sb.WriteString("Knowledge Base:\n")
	if len(kb.FAQs) == 0 {
		sb.WriteString(EmptyKnowledgeMarker)
	} else {
		pairs := make([]string, 0, len(kb.FAQs))
		for _, faq := range kb.FAQs {
			pairs = append(pairs, fmt.Sprintf("Q: %s\nA: %s", faq.Question, faq.Answer))
		}
		sb.WriteString(strings.Join(pairs, "\n\n"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(replySchemaInstruction)
	return sb.String()
}

func languageInstruction(language string) string {
	switch language {
	case "ar":
		return "Always respond in Arabic"
	case "en":
		return "Always respond in English"
	default:
		return "Always respond in the same language as the customer (Arabic or English)"
	}
}

const replySchemaInstruction = `When the customer wants to order, collect all required info through conversation, then return JSON in this exact format (no markdown, no code blocks):
{
  "reply": "your response to customer",
  "intent": "question|order|complaint",
  "orderData": {
    "product": "product name",
    "quantity": number,
    "address": "delivery address",
    "phone": "phone number"
  }
}

If it's not an order, set orderData to null.
Always return valid JSON only.`
