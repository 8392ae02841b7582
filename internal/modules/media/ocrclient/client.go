// Package ocrclient is the HTTP adapter for the external recognition
// service. The service takes a media blob and answers with the recognized
// text and a confidence score; for videos it also reports how many frames
// it examined.
package ocrclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/mlevasseur/bonus-watcher/internal/modules/media"
)

// Client implements media.Recognizer against a recognition HTTP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Recognition over video frames is slow; the pipeline tolerates
			// this serializing behind other messages.
			Timeout: 2 * time.Minute,
		},
	}
}

type recognizeResponse struct {
	Text           string `json:"text"`
	Confidence     int    `json:"confidence"`
	FramesExamined int    `json:"frames_examined"`
}

func (c *Client) RecognizeImage(ctx context.Context, data []byte) (media.Result, error) {
	resp, err := c.post(ctx, "/recognize/image", "application/octet-stream", data)
	if err != nil {
		return media.Result{}, err
	}
	return media.Result{Text: resp.Text, Confidence: resp.Confidence}, nil
}

func (c *Client) RecognizeVideo(ctx context.Context, data []byte, mimeType string) (media.VideoResult, error) {
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	resp, err := c.post(ctx, "/recognize/video", mimeType, data)
	if err != nil {
		return media.VideoResult{}, err
	}
	return media.VideoResult{
		Result:         media.Result{Text: resp.Text, Confidence: resp.Confidence},
		FramesExamined: resp.FramesExamined,
	}, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, data []byte) (*recognizeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.With("path", path, "context", "recognition request failed").Wrap(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, oops.With("path", path, "status", res.StatusCode).
			Wrap(fmt.Errorf("recognition service returned %s", res.Status))
	}

	var out recognizeResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, oops.With("path", path, "context", "failed to decode recognition response").Wrap(err)
	}
	return &out, nil
}
