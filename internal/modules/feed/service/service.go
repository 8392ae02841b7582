package service

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/oops"

	"github.com/mlevasseur/bonus-watcher/internal/modules/bonus/domain"
	bonusRepo "github.com/mlevasseur/bonus-watcher/internal/modules/bonus/repository"
)

// Service renders the published bonus history as an RSS feed, a pull-based
// mirror of the Discord output.
type Service struct {
	recordRepo bonusRepo.Repository
}

// New creates a new feed service.
func New(recordRepo bonusRepo.Repository) *Service {
	return &Service{recordRepo: recordRepo}
}

// GenerateFeed builds an RSS feed of the most recent detections.
func (s *Service) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	records, err := s.recordRepo.GetRecent(50)
	if err != nil {
		return nil, oops.With("context", "failed to load record history").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "Bonus Watcher - Detections",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss", baseURL)},
		Description: "Bonus codes detected from watched channels",
		Created:     time.Now(),
	}

	var items []*feeds.Item
	for _, rec := range records {
		items = append(items, recordToFeedItem(rec))
	}

	feed.Items = items
	return feed, nil
}

func recordToFeedItem(rec *domain.Record) *feeds.Item {
	description := fmt.Sprintf("Code: %s (%s)", rec.Code, rec.Kind)
	for _, c := range rec.Conditions {
		description += fmt.Sprintf("\n%s: %s", c.Label, c.Value)
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("[%s] %s", rec.Kind, rec.Code),
		Link:        &feeds.Link{Href: rec.URL},
		Description: description,
		Created:     rec.DetectedAt,
		Id:          fmt.Sprintf("%s-%d", rec.ChannelID, rec.MessageID),
	}
}
