// Package llm writes a short narrative summary of a run's missing-data
// entries, for the channel post. Purely optional; everything works with
// it disabled.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"gareport/internal/domain"
)

const systemPrompt = "You summarize data gaps in engineering accreditation reporting runs. " +
	"Given a list of indicators whose grade data could not be resolved, write a short plain-text " +
	"summary (max 5 sentences) grouping the gaps by course and probable cause, so a program " +
	"administrator knows which spreadsheets to fix first. No preamble."

// SummarizeMissing asks the model to condense the run's missing-data
// entries into a reviewer-friendly paragraph.
func SummarizeMissing(apiKey, model string, missing []domain.MissingData) (string, error) {
	if len(missing) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, md := range missing {
		fmt.Fprintf(&b, "- program=%s course=%s assessment=%s indicator=%s level=%s reason=%s\n",
			md.Program, md.Course, md.Assessment, md.Indicator, md.Level, md.Reason)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	message, err := client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(b.String())),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize missing data: %w", err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	usage := message.Usage
	log.Printf("llm run-summary model=%s entries=%d tokens_in=%d tokens_out=%d",
		model, len(missing), usage.InputTokens, usage.OutputTokens)
	return strings.TrimSpace(out.String()), nil
}
