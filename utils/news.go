package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type NewsClientInterface interface {
	LatestSnippet(query string) (string, error)
}

// NewsClient pulls a short market-news snippet from the DuckDuckGo
// instant-answer API.
type NewsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewNewsClient(baseURL string) NewsClientInterface {
	return &NewsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// LatestSnippet returns the abstract for the query, falling back to the
// first related topic when no abstract exists.
func (n *NewsClient) LatestSnippet(query string) (string, error) {
	params := url.Values{
		"q":       {query},
		"format":  {"json"},
		"no_html": {"1"},
	}

	resp, err := n.httpClient.Get(n.baseURL + "/?" + params.Encode())
	if err != nil {
		return "", fmt.Errorf("news lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("news lookup returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AbstractText  string `json:"AbstractText"`
		RelatedTopics []struct {
			Text string `json:"Text"`
		} `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("news lookup failed: decode: %w", err)
	}

	if payload.AbstractText != "" {
		return payload.AbstractText, nil
	}
	for _, topic := range payload.RelatedTopics {
		if topic.Text != "" {
			return topic.Text, nil
		}
	}
	return "", fmt.Errorf("news lookup returned no results for %q", query)
}
