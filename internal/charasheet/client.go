// Package charasheet fetches raw character exports from the character-sheet
// site.
package charasheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"dollsheet/internal/nechronica"
)

const (
	DefaultBaseURL = "https://" + DefaultHost
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 4 << 20
)

// Result is a fetched payload and the id it was fetched under.
type Result struct {
	SheetID string
	Raw     nechronica.Raw
}

// Client fetches {BaseURL}/{id}.js. Host is the only URL host ParseIdentifier
// accepts, which lets BaseURL point at a test server.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Host       string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewClient returns a Client with defaults filled for empty arguments.
func NewClient(baseURL, host string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if host == "" {
		host = DefaultHost
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Host:       host,
		Timeout:    timeout,
		Logger:     logger,
	}
}

// Fetch resolves input to a sheet id and downloads its export. No request
// is made when input has no usable id. Every failure is a *FetchError.
func (c *Client) Fetch(ctx context.Context, input string) (Result, error) {
	id, err := ParseIdentifier(input, c.Host)
	if err != nil {
		reason := ReasonInvalidIdentifier
		if errors.Is(err, ErrUnsupportedURL) {
			reason = ReasonUnsupportedURL
		}
		return Result{}, fail(reason, "", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+id+".js", nil)
	if err != nil {
		return Result{}, fail(ReasonUnsupportedURL, id, err)
	}
	req.Header.Set("Accept", "application/json, text/javascript")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return Result{}, fail(ReasonTimedOut, id, errors.Join(ErrTimedOut, err))
		}
		return Result{}, fail(ReasonNotFound, id, err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("charasheet response",
		zap.String("sheet_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return Result{}, fail(ReasonNotFound, id, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return Result{}, fail(ReasonTimedOut, id, errors.Join(ErrTimedOut, err))
		}
		return Result{}, fail(ReasonMalformedResponse, id, err)
	}

	raw, err := decodePayload(body)
	if err != nil {
		reason := ReasonMalformedResponse
		if errors.Is(err, ErrNotFound) {
			reason = ReasonNotFound
		}
		return Result{}, fail(reason, id, err)
	}
	return Result{SheetID: id, Raw: raw}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// decodePayload accepts plain JSON or a JSONP callback wrapping it. The
// payload must be a JSON object.
func decodePayload(body []byte) (nechronica.Raw, error) {
	body = stripJSONP(bytes.TrimSpace(body))
	if len(body) == 0 {
		return nil, ErrNotFound
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() {
		return nil, ErrMalformedResponse
	}
	raw, ok := res.Value().(map[string]any)
	if !ok {
		return nil, ErrMalformedResponse
	}
	return raw, nil
}

// stripJSONP turns `cb({...});` into `{...}`. Anything that does not look
// like a callback invocation is returned unchanged.
func stripJSONP(body []byte) []byte {
	if len(body) == 0 || body[0] == '{' || body[0] == '[' {
		return body
	}
	open := bytes.IndexByte(body, '(')
	if open <= 0 || !isCallbackName(body[:open]) {
		return body
	}
	end := bytes.TrimRight(body, "; \t\r\n")
	if len(end) == 0 || end[len(end)-1] != ')' {
		return body
	}
	return bytes.TrimSpace(end[open+1 : len(end)-1])
}

func isCallbackName(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '$', c == '.':
		default:
			return false
		}
	}
	return true
}
