package remark

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"spendy/internal/core"
)

const defaultPrompt = "You are a dry, slightly judgmental financial commentator.\n" +
	"Write ONE short remark (max 20 words) about the transaction below.\n" +
	"Be witty, never cruel. No emoji, no quotes, no preamble.\n"

// Gemini asks the model for a comment on the transaction.
type Gemini struct {
	client *genai.Client
	model  string
	prompt string
}

// NewGemini builds a model-backed generator. An empty prompt uses the
// built-in one.
func NewGemini(ctx context.Context, model, prompt string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Gemini{client: client, model: model, prompt: prompt}, nil
}

func (g *Gemini) Generate(ctx context.Context, txn core.Transaction) (string, error) {
	detail := fmt.Sprintf("Amount: %s\nCategory: %s\nMerchant: %s\nNote: %s\n",
		core.FormatMoney(txn.Currency, txn.Amount), txn.Category, txn.Merchant, txn.Note)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: g.prompt + "\n" + detail},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	// Models occasionally quote their own output.
	text = strings.Trim(text, `"`)
	return text, nil
}
