// Package zulip implements a minimal client for the Zulip REST API.
//
// Only the write-side surface the proxy needs is covered: sending messages,
// editing messages, uploading files and listing stream topics. The client
// authenticates as a single bot via HTTP Basic auth and never exposes the
// bot credentials to callers.
package zulip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/RobertRosca/zulip-write-only-proxy/internal/errors"
)

// Topic is a single topic within a Zulip stream.
type Topic struct {
	Name  string `json:"name"`
	MaxID int64  `json:"max_id"`
}

// apiResponse is the envelope Zulip wraps around every API response.
// On failure Result is "error" and Msg carries the reason.
type apiResponse struct {
	Result string  `json:"result"`
	Msg    string  `json:"msg"`
	Code   string  `json:"code,omitempty"`
	ID     int64   `json:"id,omitempty"`       // message id (send)
	URI    string  `json:"uri,omitempty"`      // upload path (user_uploads)
	URL    string  `json:"url,omitempty"`      // upload path on newer servers
	Stream int64   `json:"stream_id,omitempty"`
	Topics []Topic `json:"topics,omitempty"`
}

// Client is a Zulip API client bound to a single bot identity.
type Client struct {
	baseURL    string
	botEmail   string
	botAPIKey  string
	httpClient *http.Client
}

// NewClient creates a Zulip client for the given site, authenticating every
// request as the bot via HTTP Basic auth.
func NewClient(siteURL, botEmail, botAPIKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(siteURL, "/"),
		botEmail:  botEmail,
		botAPIKey: botAPIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SendMessage posts a message to a stream topic and returns the new message ID.
func (c *Client) SendMessage(ctx context.Context, stream, topic, content string) (int64, error) {
	form := url.Values{}
	form.Set("type", "stream")
	form.Set("to", stream)
	form.Set("topic", topic)
	form.Set("content", content)

	result, err := c.doForm(ctx, http.MethodPost, "/api/v1/messages", form)
	if err != nil {
		return 0, err
	}

	return result.ID, nil
}

// UpdateMessage edits the content and/or topic of a previously sent message.
// propagateMode controls which messages a topic edit applies to and must be
// one of "change_one", "change_all" or "change_later".
func (c *Client) UpdateMessage(ctx context.Context, messageID int64, content, topic, propagateMode string) error {
	form := url.Values{}
	if content != "" {
		form.Set("content", content)
	}
	if topic != "" {
		form.Set("topic", topic)
	}
	if propagateMode != "" {
		form.Set("propagate_mode", propagateMode)
	}

	path := fmt.Sprintf("/api/v1/messages/%d", messageID)
	_, err := c.doForm(ctx, http.MethodPatch, path, form)
	return err
}

// UploadFile uploads a file to Zulip and returns the server-side path that can
// be referenced from message content.
func (c *Client) UploadFile(ctx context.Context, filename string, file io.Reader) (string, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build upload form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", apperrors.Wrap(err, "failed to read upload content")
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(err, "failed to finalize upload form")
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/v1/user_uploads",
		strings.NewReader(body.String()),
	)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	result, err := c.do(req)
	if err != nil {
		return "", err
	}

	// Older servers return "uri", newer ones "url".
	if result.URI != "" {
		return result.URI, nil
	}
	return result.URL, nil
}

// GetStreamID resolves a stream name to its numeric ID.
func (c *Client) GetStreamID(ctx context.Context, stream string) (int64, error) {
	path := "/api/v1/get_stream_id?stream=" + url.QueryEscape(stream)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to create request")
	}

	result, err := c.do(req)
	if err != nil {
		return 0, err
	}

	return result.Stream, nil
}

// GetStreamTopics lists the recent topics of a stream.
func (c *Client) GetStreamTopics(ctx context.Context, streamID int64) ([]Topic, error) {
	path := "/api/v1/users/me/" + strconv.FormatInt(streamID, 10) + "/topics"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create request")
	}

	result, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return result.Topics, nil
}

// doForm performs a form-encoded request and decodes the API envelope.
func (c *Client) doForm(ctx context.Context, method, path string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// do executes the request with bot credentials and maps transport and API
// failures onto the upstream error taxonomy.
func (c *Client) do(req *http.Request) (*apiResponse, error) {
	req.SetBasicAuth(c.botEmail, c.botAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(req.Context(), err) {
			return nil, apperrors.Wrap(apperrors.ErrUpstreamTimeout, err.Error())
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "failed to read response body")
	}

	var result apiResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil, apperrors.Wrap(apperrors.ErrUpstreamRejected, "malformed response from zulip")
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamRejected, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || result.Result == "error" {
		msg := result.Msg
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamRejected, msg)
	}

	return &result, nil
}

// isTimeout reports whether a transport failure was caused by a deadline.
func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var urlErr *url.Error
	if apperrors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
