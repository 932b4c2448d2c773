// ABOUTME: HTTP client for the Notion record-store API.
// ABOUTME: Covers schema retrieval, bounded queries, search, and the credential probe.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calwidget/calwidget/internal/query"
	"github.com/calwidget/calwidget/internal/schema"
)

const (
	BaseURL    = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"

	// queryPageSize bounds a single fetch window; the widget never paginates.
	queryPageSize = 100
)

// Client is a record-store API client bound to one integration credential.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given integration token.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// doRequest performs an HTTP request with auth and version headers. Any
// transport failure or non-2xx status comes back as a *RemoteError.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: op, Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return nil, &RemoteError{Op: op, Status: resp.StatusCode, Message: apiMessage(respBody)}
	}
	return respBody, nil
}

// apiMessage pulls the human-readable message out of an API error body.
func apiMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}

// FetchSchema retrieves the property catalog of a database, preserving the
// upstream declaration order. Stable ordering is what keeps role inference
// deterministic.
func (c *Client) FetchSchema(ctx context.Context, databaseID string) (schema.Catalog, error) {
	data, err := c.doRequest(ctx, "fetch schema", http.MethodGet, "/databases/"+databaseID, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &RemoteError{Op: "fetch schema", Message: "malformed schema response: " + err.Error()}
	}
	catalog, err := decodeOrderedProperties(envelope.Properties)
	if err != nil {
		return nil, &RemoteError{Op: "fetch schema", Message: "malformed schema response: " + err.Error()}
	}
	return catalog, nil
}

// decodeOrderedProperties walks the properties object token by token so the
// catalog keeps the JSON key order, which map decoding would destroy.
func decodeOrderedProperties(raw json.RawMessage) (schema.Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("properties is not an object")
	}

	var catalog schema.Catalog
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v in properties object", keyTok)
		}
		var prop struct {
			Type string `json:"type"`
		}
		if err := dec.Decode(&prop); err != nil {
			return nil, err
		}
		catalog = append(catalog, schema.PropertyDescriptor{
			Name: name,
			Kind: KindFromType(prop.Type),
		})
	}
	return catalog, nil
}

// QueryRecords fetches the records matching filter in a single bounded page.
func (c *Client) QueryRecords(ctx context.Context, databaseID string, filter query.Filter) ([]Record, error) {
	body := map[string]any{
		"filter":    filter,
		"page_size": queryPageSize,
	}
	data, err := c.doRequest(ctx, "query records", http.MethodPost, "/databases/"+databaseID+"/query", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []Record `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &RemoteError{Op: "query records", Message: "malformed query response: " + err.Error()}
	}
	return envelope.Results, nil
}

// ListDatabases returns the databases the credential can see. Only used
// during setup.
func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	body := map[string]any{
		"filter":    map[string]string{"value": "database", "property": "object"},
		"page_size": queryPageSize,
	}
	data, err := c.doRequest(ctx, "list databases", http.MethodPost, "/search", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []struct {
			ID    string    `json:"id"`
			Title []TextRun `json:"title"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &RemoteError{Op: "list databases", Message: "malformed search response: " + err.Error()}
	}

	databases := make([]Database, 0, len(envelope.Results))
	for _, r := range envelope.Results {
		title := "Untitled"
		if len(r.Title) > 0 && r.Title[0].PlainText != "" {
			title = r.Title[0].PlainText
		}
		databases = append(databases, Database{ID: r.ID, Title: title})
	}
	return databases, nil
}

// CheckCredential probes whether the credential can reach the API at all.
func (c *Client) CheckCredential(ctx context.Context) error {
	_, err := c.doRequest(ctx, "check credential", http.MethodGet, "/users/me", nil)
	return err
}
