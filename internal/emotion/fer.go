package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultFERURL = "http://localhost:8600"

// FERProvider talks to a FER-style emotion classification HTTP service.
// The service accepts a base64 JPEG and answers with per-emotion scores.
type FERProvider struct {
	baseURL string
	client  *http.Client
}

// NewFERProvider creates a provider for the given service URL.
func NewFERProvider(baseURL string) *FERProvider {
	if baseURL == "" {
		baseURL = defaultFERURL
	}
	return &FERProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *FERProvider) Name() string {
	return "fer"
}

// ferRequest is the request body for the /classify endpoint.
type ferRequest struct {
	Image string `json:"image"` // base64 encoded JPEG
}

// ferResponse is the response body from the /classify endpoint.
type ferResponse struct {
	Emotions map[string]float64 `json:"emotions"`
	Error    string             `json:"error,omitempty"`
}

// Classify sends the crop to the service and picks the top-scoring emotion.
func (p *FERProvider) Classify(ctx context.Context, jpegData []byte) (Result, error) {
	body, err := json.Marshal(ferRequest{
		Image: base64.StdEncoding.EncodeToString(jpegData),
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("calling emotion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("emotion service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed ferResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != "" {
		return Result{}, errors.New(parsed.Error)
	}
	if len(parsed.Emotions) == 0 {
		return Result{}, errors.New("emotion service returned no scores")
	}

	return topEmotion(parsed.Emotions), nil
}

// topEmotion picks the highest-scoring emotion. Label order breaks exact
// score ties deterministically.
func topEmotion(scores map[string]float64) Result {
	var best Result
	for label, score := range scores {
		if score > best.Confidence || (score == best.Confidence && (best.Label == "" || label < best.Label)) {
			best = Result{Label: label, Confidence: score}
		}
	}
	return best
}
