package emotion

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"emoscan/internal/constants"
)

//go:embed prompts/emotion.txt
var emotionPrompt string

const chatModel = openai.ChatModelGPT4_1Mini

// OpenAIProvider classifies emotions with a small vision chat model.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a provider with the given API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client}
}

func (p *OpenAIProvider) Name() string {
	return chatModel
}

// emotionAnswer is the JSON shape both vision providers are prompted for.
type emotionAnswer struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

func (p *OpenAIProvider) Classify(ctx context.Context, jpegData []byte) (Result, error) {
	// Resize crop to keep request size and cost down.
	resized, err := ResizeImage(jpegData, constants.MaxCropSize)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resize crop: %w", err)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(emotionPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart("Classify this face."),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL:    imageURL,
								Detail: "low",
							}),
						},
					},
				},
			},
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(50),
	})
	if err != nil {
		return Result{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("no response from OpenAI")
	}

	var answer emotionAnswer
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &answer); err != nil {
		return Result{}, fmt.Errorf("parsing OpenAI response: %w", err)
	}

	return Result{Label: answer.Emotion, Confidence: answer.Confidence}, nil
}
