package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"nestory-backend/utils"
)

const googleBooksURL = "https://www.googleapis.com/books/v1/volumes"

// GoogleBook is the flattened volume shape the library works with.
type GoogleBook struct {
	GoogleBookID string `json:"googleBookId"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Description  string `json:"description"`
	CoverImage   string `json:"coverImage"`
	PreviewLink  string `json:"previewLink"`
	PageCount    int    `json:"pageCount"`
}

type googleVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title       string   `json:"title"`
		Authors     []string `json:"authors"`
		Description string   `json:"description"`
		PageCount   int      `json:"pageCount"`
		PreviewLink string   `json:"previewLink"`
		ImageLinks  struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// GoogleBooksClient is a thin client over the Google Books volumes API.
type GoogleBooksClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewGoogleBooksClient() *GoogleBooksClient {
	return &GoogleBooksClient{
		BaseURL: googleBooksURL,
		APIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		HTTP:    utils.HTTPClient,
	}
}

// Search returns up to 10 volumes matching q.
func (c *GoogleBooksClient) Search(q string) ([]GoogleBook, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "10")
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	resp, err := c.HTTP.Get(c.BaseURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books search: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Items []googleVolume `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("google books search: %w", err)
	}

	books := make([]GoogleBook, 0, len(payload.Items))
	for _, item := range payload.Items {
		books = append(books, flattenVolume(item))
	}
	return books, nil
}

// GetByID fetches full metadata for one volume.
func (c *GoogleBooksClient) GetByID(googleBookID string) (*GoogleBook, error) {
	endpoint := fmt.Sprintf("%s/%s", c.BaseURL, url.PathEscape(googleBookID))
	if c.APIKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.APIKey)
	}

	resp, err := c.HTTP.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("google books lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books lookup: unexpected status %d", resp.StatusCode)
	}

	var item googleVolume
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("google books lookup: %w", err)
	}
	item.ID = googleBookID

	book := flattenVolume(item)
	return &book, nil
}

func flattenVolume(item googleVolume) GoogleBook {
	v := item.VolumeInfo

	author := "Unknown"
	if len(v.Authors) > 0 {
		author = v.Authors[0]
	}
	title := v.Title
	if title == "" {
		title = "Unknown"
	}

	return GoogleBook{
		GoogleBookID: item.ID,
		Title:        title,
		Author:       author,
		Description:  v.Description,
		CoverImage:   v.ImageLinks.Thumbnail,
		PreviewLink:  v.PreviewLink,
		PageCount:    v.PageCount,
	}
}
