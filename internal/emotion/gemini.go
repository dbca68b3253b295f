package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"emoscan/internal/constants"
)

const geminiModel = "gemini-2.5-flash"

// GeminiProvider classifies emotions with the Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a provider with the given API key.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string {
	return geminiModel
}

func (p *GeminiProvider) Classify(ctx context.Context, jpegData []byte) (Result, error) {
	resized, err := ResizeImage(jpegData, constants.MaxCropSize)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resize crop: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: emotionPrompt},
				{InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := p.client.Models.GenerateContent(ctx, geminiModel, contents, config)
	if err != nil {
		return Result{}, fmt.Errorf("gemini API error: %w", err)
	}

	text := result.Text()
	if text == "" {
		return Result{}, errors.New("empty response from Gemini")
	}

	var answer emotionAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return Result{}, fmt.Errorf("parsing Gemini response: %w", err)
	}

	return Result{Label: answer.Emotion, Confidence: answer.Confidence}, nil
}
