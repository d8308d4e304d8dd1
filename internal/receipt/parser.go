package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Parser extracts a structured receipt from an image.
type Parser interface {
	Parse(ctx context.Context, imageData []byte, mimeType string) (ParsedReceipt, error)
}

const parsePrompt = "You are a receipt parser.\n\n" +
	"Task:\n" +
	"- Read the attached receipt image.\n" +
	"- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
	"- Output a single JSON object.\n\n" +
	"The object must have these fields:\n" +
	"- \"merchant\": string (store name as printed)\n" +
	"- \"payment_method\": string, one of \"CARD\", \"CASH\", \"TRANSFER\"\n" +
	"- \"total\": number (the receipt total)\n" +
	"- \"items\": array of objects with fields:\n" +
	"  - \"item\": string (line item name as printed)\n" +
	"  - \"price\": number (unit price)\n" +
	"  - \"quantity\": integer (1 if not shown)\n" +
	"  - \"total\": number (price * quantity)\n\n" +
	"Rules:\n" +
	"- Skip subtotal, tax, discount and change lines; they are not items.\n" +
	"- If the payment method cannot be determined, use \"CARD\".\n" +
	"- Return ONLY valid raw JSON.\n" +
	"- Do NOT wrap the response in code fences.\n" +
	"- Output must begin with \"{\" and end with \"}\".\n"

// GeminiParser sends the receipt image to Gemini.
type GeminiParser struct {
	client *genai.Client
	model  string
}

func NewGeminiParser(ctx context.Context, model string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiParser{client: client, model: model}, nil
}

func (p *GeminiParser) Parse(ctx context.Context, imageData []byte, mimeType string) (ParsedReceipt, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: parsePrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageData,
					},
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return ParsedReceipt{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return ParsedReceipt{}, fmt.Errorf("empty response from model")
	}

	var rcpt ParsedReceipt
	clean := cleanModelJSON(rawText)
	if err := json.Unmarshal([]byte(clean), &rcpt); err != nil {
		return ParsedReceipt{}, fmt.Errorf("unmarshal receipt JSON: %w\nraw response: %s", err, rawText)
	}

	rcpt.PaymentMethod = NormalizePaymentMethod(rcpt.PaymentMethod)
	return rcpt, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk the model
// sometimes emits despite the instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}' if junk remains.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
