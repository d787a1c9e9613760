package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/renotrack/renovation-tracker/internal/config"
	"github.com/renotrack/renovation-tracker/internal/model"
)

var (
	// ErrUnknownRoom is returned when the top label is not a RoomType.
	ErrUnknownRoom = errors.New("classifier returned an unknown room label")
	// ErrClassifier covers transport failures and non-2xx answers.
	ErrClassifier = errors.New("room classifier failed")
)

type classifyRequest struct {
	ImageURL string `json:"image_url"`
}

type classifyResponse struct {
	Predictions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"predictions"`
}

// HTTPRoomClassifier calls a remote image classification endpoint.
type HTTPRoomClassifier struct {
	url    string
	token  string
	client *http.Client
}

func NewHTTPRoomClassifier(cfg config.InferenceConfig) *HTTPRoomClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPRoomClassifier{
		url:    cfg.ClassifierURL,
		token:  cfg.ClassifierToken,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPRoomClassifier) Classify(ctx context.Context, imageURL string) (model.RoomType, error) {
	body, err := json.Marshal(classifyRequest{ImageURL: imageURL})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrClassifier, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrClassifier, err)
	}
	if len(out.Predictions) == 0 {
		return "", fmt.Errorf("%w: empty predictions", ErrClassifier)
	}

	best := out.Predictions[0]
	for _, p := range out.Predictions[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	rt, ok := model.ParseRoomType(best.Label)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoom, best.Label)
	}
	return rt, nil
}
