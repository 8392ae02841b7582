package telegram

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/samber/oops"
)

// Fetcher downloads media attachments through the Bot API file endpoint.
// It implements detect.MediaFetcher.
type Fetcher struct {
	b      *bot.Bot
	client *http.Client
}

// NewFetcher creates a Fetcher; the bot is attached later via SetBot since
// the bot itself is constructed last.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// SetBot attaches the bot instance.
func (f *Fetcher) SetBot(b *bot.Bot) {
	f.b = b
}

// Fetch resolves the file path for fileID and downloads its bytes.
func (f *Fetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	if f.b == nil {
		return nil, oops.Errorf("telegram bot not attached")
	}

	file, err := f.b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, oops.With("file_id", fileID, "context", "failed to resolve file").Wrap(err)
	}

	link := f.b.FileDownloadLink(file)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, oops.With("file_id", fileID).Wrap(err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, oops.With("file_id", fileID, "context", "file download failed").Wrap(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, oops.With("file_id", fileID, "status", res.StatusCode).
			Errorf("file download returned %s", res.Status)
	}

	return io.ReadAll(res.Body)
}
