package models

import (
	"strings"
	"time"
)

// EmailFrequency controls how often the backend mails a news digest.
type EmailFrequency string

const (
	FrequencyDaily  EmailFrequency = "daily"
	FrequencyWeekly EmailFrequency = "weekly"
	FrequencyNever  EmailFrequency = "never"
)

// ParseEmailFrequency maps arbitrary input onto a known frequency,
// falling back to weekly like the backend does.
func ParseEmailFrequency(s string) EmailFrequency {
	switch EmailFrequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyNever:
		return EmailFrequency(s)
	}
	return FrequencyWeekly
}

type User struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	FavoriteTopics []string       `json:"favoriteTopics"`
	EmailFrequency EmailFrequency `json:"emailFrequency"`
}

// Article is an immutable snapshot from the news provider. ID is only
// set when the article is embedded in a collection; feed articles are
// keyed by URL.
type Article struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source,omitempty"`
	Author      string    `json:"author,omitempty"`
}

type Collection struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Articles []Article `json:"articles"`
}

// FeedPage is one page of articles from any of the news endpoints.
type FeedPage struct {
	Articles      []Article `json:"articles"`
	TotalResults  int       `json:"totalResults"`
	Page          int       `json:"page"`
	FromFavorites bool      `json:"fromFavorites"`
}

// FavoriteTopics is the closed set of provider categories a user may follow.
var FavoriteTopics = []string{
	"business",
	"entertainment",
	"general",
	"health",
	"science",
	"sports",
	"technology",
}

// IsFavoriteTopic reports whether topic (trimmed) is in the allowed set.
func IsFavoriteTopic(topic string) bool {
	topic = strings.TrimSpace(topic)
	for _, t := range FavoriteTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// HasFavoriteTopics reports whether at least one entry is a valid topic.
func HasFavoriteTopics(topics []string) bool {
	for _, t := range topics {
		if IsFavoriteTopic(t) {
			return true
		}
	}
	return false
}
