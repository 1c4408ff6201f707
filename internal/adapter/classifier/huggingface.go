package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultModel is the multilingual five-class review model.
const DefaultModel = "nlptown/bert-base-multilingual-uncased-sentiment"

// HuggingFaceClient calls a hosted text-classification inference endpoint.
type HuggingFaceClient struct {
	baseURL    string
	model      string
	token      string
	httpClient *http.Client
}

// NewHuggingFaceClient creates a new inference client.
func NewHuggingFaceClient(baseURL, model, token string, timeout time.Duration) *HuggingFaceClient {
	if model == "" {
		model = DefaultModel
	}
	return &HuggingFaceClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// InferenceRequest is the body sent to the inference endpoint.
type InferenceRequest struct {
	Inputs  string            `json:"inputs"`
	Options *InferenceOptions `json:"options,omitempty"`
}

// InferenceOptions controls endpoint behaviour.
type InferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// LabelScore is one class probability in the endpoint response.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// InferenceError is the error body returned by the endpoint.
type InferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Classify sends text to the model and returns the highest-probability class.
func (c *HuggingFaceClient) Classify(ctx context.Context, text string) (int, error) {
	body, err := json.Marshal(InferenceRequest{
		Inputs:  text,
		Options: &InferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+c.model, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp InferenceError
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return 0, fmt.Errorf("inference API error [%d]: %s", resp.StatusCode, errResp.Error)
		}
		return 0, fmt.Errorf("inference API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	scores, err := decodeScores(respBody)
	if err != nil {
		return 0, err
	}
	return argmaxClass(scores)
}

// decodeScores accepts both the nested [[...]] and the flat [...] response shapes.
func decodeScores(body []byte) ([]LabelScore, error) {
	var nested [][]LabelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("empty inference response")
		}
		return nested[0], nil
	}

	var flat []LabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return flat, nil
}

func argmaxClass(scores []LabelScore) (int, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("inference response has no labels")
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return ClassFromLabel(best.Label)
}

// ClassFromLabel converts a model label to a 1-5 class index. Labels such as
// "4 stars" carry the class directly; "LABEL_3" style labels are zero based.
func ClassFromLabel(label string) (int, error) {
	l := strings.TrimSpace(label)
	zeroBased := false
	if rest, ok := strings.CutPrefix(strings.ToUpper(l), "LABEL_"); ok {
		l = rest
		zeroBased = true
	}

	end := strings.IndexFunc(l, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(l)
	}
	n, err := strconv.Atoi(l[:end])
	if err != nil {
		return 0, fmt.Errorf("unrecognised label %q", label)
	}
	if zeroBased {
		n++
	}
	if n < MinClass || n > MaxClass {
		return 0, fmt.Errorf("label %q out of range", label)
	}
	return n, nil
}

// setHeaders sets common request headers.
func (c *HuggingFaceClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
