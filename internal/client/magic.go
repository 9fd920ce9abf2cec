package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sophistic/Quack/internal/models"
)

// ErrTimeout reports that a request to the completion service exceeded its
// deadline. Distinct from generic failures so callers can surface it.
var ErrTimeout = errors.New("magic request timed out")

// Default deadlines for the two remote calls. Generation is slow; history
// fetches are not.
const (
	completionTimeout = 60 * time.Second
	historyTimeout    = 15 * time.Second
)

// MagicService talks to the remote Magic completion API
type MagicService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMagicService creates a client for the given service endpoint
func NewMagicService(baseURL, apiKey string) *MagicService {
	return &MagicService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: completionTimeout,
		},
	}
}

type apiError struct {
	Error string `json:"error"`
}

// CreateCompletion sends the user message plus full prior history and returns
// the assistant reply along with the server-side conversation identity.
func (s *MagicService) CreateCompletion(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("magic API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("magic API returned status %d", resp.StatusCode)
	}

	var result models.GenerateResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	return &result, nil
}

// FetchHistory returns the ordered message list of an established
// conversation. Sender tags come back as-is; callers normalize them.
func (s *MagicService) FetchHistory(ctx context.Context, convoID int64) ([]models.HistoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, historyTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/conversations/%d/messages", s.baseURL, convoID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, wrapTimeout(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history fetch returned status %d", resp.StatusCode)
	}

	var records []models.HistoryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return records, nil
}

func wrapTimeout(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("magic request failed: %w", err)
}
