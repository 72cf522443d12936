package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"go-sentinel/types"
)

// Composer turns the structured alert into a short human-readable message
// for the recipient. It is optional enrichment: any failure falls back to a
// fixed template so alert delivery never depends on OpenAI.
type Composer struct {
	client *openai.Client
}

func NewComposer(apiKey string) *Composer {
	if apiKey == "" {
		return nil
	}
	return &Composer{client: openai.NewClient(apiKey)}
}

func (c *Composer) Compose(ctx context.Context, alert types.AlertPayload) string {
	fallback := fallbackMessage(alert)
	if c == nil || c.client == nil {
		return fallback
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT3Dot5Turbo,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You write one-sentence emergency notifications for family members of a traveller who may be lost. Be calm and factual.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: "Write the notification based on this data: " + fallback,
				},
			},
			MaxTokens: 100,
		},
	)
	if err != nil {
		log.Printf("Alert message composition failed, using template: %v", err)
		return fallback
	}
	msg := strings.TrimSpace(resp.Choices[0].Message.Content)
	if msg == "" {
		return fallback
	}
	return msg
}

func fallbackMessage(alert types.AlertPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s may be lost", alert.SubjectID)
	if alert.LastKnownPosition != nil {
		fmt.Fprintf(&b, ", last seen near %.4f, %.4f", alert.LastKnownPosition.Latitude, alert.LastKnownPosition.Longitude)
	}
	if alert.Route != nil && alert.Route.From.Address != "" && alert.Route.To.Address != "" {
		fmt.Fprintf(&b, " while travelling from %s to %s", alert.Route.From.Address, alert.Route.To.Address)
		if alert.Route.TransportMode != "" {
			fmt.Fprintf(&b, " by %s", alert.Route.TransportMode)
		}
	}
	b.WriteString(".")
	return b.String()
}
