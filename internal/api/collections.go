package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rbarbosa/newsdeck/pkg/models"
)

type collectionName struct {
	Name string `json:"name"`
}

// ListCollections returns the user's collections.
func (c *Client) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var resp struct {
		Collections []models.Collection `json:"collections"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Collections, nil
}

// GetCollection loads one collection with its articles.
func (c *Client) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	var resp struct {
		Collection *models.Collection `json:"collection"`
	}
	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Collection, nil
}

// CreateCollection creates a named collection.
func (c *Client) CreateCollection(ctx context.Context, name string) (*models.Collection, error) {
	var resp struct {
		Collection *models.Collection `json:"collection"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections", nil, collectionName{Name: name}, &resp); err != nil {
		return nil, err
	}
	return resp.Collection, nil
}

// RenameCollection changes a collection's name.
func (c *Client) RenameCollection(ctx context.Context, id, name string) (*models.Collection, error) {
	var resp struct {
		Collection *models.Collection `json:"collection"`
	}
	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPut, path, nil, collectionName{Name: name}, &resp); err != nil {
		return nil, err
	}
	return resp.Collection, nil
}

// DeleteCollection removes a collection and its article associations.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// AddArticle attaches an article snapshot to a collection.
func (c *Client) AddArticle(ctx context.Context, collectionID string, article models.Article) error {
	path := fmt.Sprintf("/collections/%s/articles", url.PathEscape(collectionID))
	return c.do(ctx, http.MethodPost, path, nil, article, nil)
}

// RemoveArticle detaches one article from a collection.
func (c *Client) RemoveArticle(ctx context.Context, collectionID, articleID string) error {
	path := fmt.Sprintf("/collections/%s/articles/%s", url.PathEscape(collectionID), url.PathEscape(articleID))
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
