package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}

// SearchNews queries the provider by free-text topic.
func (c *Client) SearchNews(ctx context.Context, topic string, page, pageSize int) (*models.FeedPage, error) {
	q := pageQuery(page, pageSize)
	q.Set("topic", topic)

	var resp models.FeedPage
	if err := c.do(ctx, http.MethodGet, "/news/search", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return &resp, nil
}

// AllNews returns top headlines without a favorites filter.
func (c *Client) AllNews(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	var resp models.FeedPage
	if err := c.do(ctx, http.MethodGet, "/news/all", pageQuery(page, pageSize), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return &resp, nil
}

// FavoriteNews returns headlines for the user's favorite topics.
func (c *Client) FavoriteNews(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	var resp models.FeedPage
	if err := c.do(ctx, http.MethodGet, "/news/favorites", pageQuery(page, pageSize), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Page == 0 {
		resp.Page = page
	}
	return &resp, nil
}
