package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/avast/retry-go/v4"
)

// Default endpoints of the remote store.
const (
	DefaultAPIBase     = "https://api.dropboxapi.com"
	DefaultContentBase = "https://content.dropboxapi.com"
)

// DefaultTimeout bounds a single remote HTTP call.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements Client against the Dropbox API v2 over HTTPS.
// Metadata operations go through JSON RPC endpoints; content transfer goes
// through the content endpoints with arguments in the Dropbox-API-Arg
// header. Transient transport failures, 429 and 5xx responses are retried;
// API-level failures (the 409 error envelope) surface immediately.
type HTTPClient struct {
	httpc       *http.Client
	token       string
	apiBase     string
	contentBase string
	attempts    uint
	log         *slog.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		h.httpc = c
	}
}

// WithEndpoints overrides the RPC and content base URLs.
func WithEndpoints(apiBase, contentBase string) ClientOption {
	return func(h *HTTPClient) {
		h.apiBase = strings.TrimSuffix(apiBase, "/")
		h.contentBase = strings.TrimSuffix(contentBase, "/")
	}
}

// WithTimeout sets the per-call timeout on the underlying http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(h *HTTPClient) {
		h.httpc.Timeout = d
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) ClientOption {
	return func(h *HTTPClient) {
		if n < 0 {
			n = 0
		}
		h.attempts = uint(n) + 1
	}
}

// NewHTTPClient creates a client authenticated with the given access token.
func NewHTTPClient(token string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		httpc:       &http.Client{Timeout: DefaultTimeout},
		token:       token,
		apiBase:     DefaultAPIBase,
		contentBase: DefaultContentBase,
		attempts:    4,
		log:         slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type pathArg struct {
	Path string `json:"path"`
}

type cursorArg struct {
	Cursor string `json:"cursor"`
}

type uploadArg struct {
	Path       string    `json:"path"`
	Mode       WriteMode `json:"mode"`
	Autorename bool      `json:"autorename"`
	Mute       bool      `json:"mute"`
}

type moveArg struct {
	FromPath               string `json:"from_path"`
	ToPath                 string `json:"to_path"`
	AllowOwnershipTransfer bool   `json:"allow_ownership_transfer"`
}

// metadataEnvelope wraps the *_v2 endpoint responses.
type metadataEnvelope struct {
	Metadata Metadata `json:"metadata"`
}

func (c *HTTPClient) GetMetadata(ctx context.Context, path string) (*Metadata, error) {
	var meta Metadata
	if err := c.rpc(ctx, "/2/files/get_metadata", pathArg{Path: path}, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *HTTPClient) Download(ctx context.Context, path string) ([]byte, *Metadata, error) {
	return c.content(ctx, "/2/files/download", pathArg{Path: path}, nil)
}

func (c *HTTPClient) Upload(ctx context.Context, path string, data []byte, mode WriteMode) (*Metadata, error) {
	arg := uploadArg{
		Path: path,
		Mode: mode,
		Mute: true,
	}
	_, meta, err := c.content(ctx, "/2/files/upload", arg, data)
	return meta, err
}

func (c *HTTPClient) Delete(ctx context.Context, path string) (*Metadata, error) {
	var env metadataEnvelope
	if err := c.rpc(ctx, "/2/files/delete_v2", pathArg{Path: path}, &env); err != nil {
		return nil, err
	}
	return &env.Metadata, nil
}

func (c *HTTPClient) CreateFolder(ctx context.Context, path string) (*Metadata, error) {
	var env metadataEnvelope
	if err := c.rpc(ctx, "/2/files/create_folder_v2", pathArg{Path: path}, &env); err != nil {
		return nil, err
	}
	return &env.Metadata, nil
}

func (c *HTTPClient) Move(ctx context.Context, fromPath, toPath string) (*Metadata, error) {
	arg := moveArg{
		FromPath: fromPath,
		ToPath:   toPath,
	}
	var env metadataEnvelope
	if err := c.rpc(ctx, "/2/files/move_v2", arg, &env); err != nil {
		return nil, err
	}
	return &env.Metadata, nil
}

func (c *HTTPClient) ListFolder(ctx context.Context, path string) (*ListResult, error) {
	var res ListResult
	if err := c.rpc(ctx, "/2/files/list_folder", pathArg{Path: path}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListFolderContinue(ctx context.Context, cursor string) (*ListResult, error) {
	var res ListResult
	if err := c.rpc(ctx, "/2/files/list_folder/continue", cursorArg{Cursor: cursor}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// rpc issues a JSON RPC call against the api endpoint and decodes the
// response into out when out is non-nil.
func (c *HTTPClient) rpc(ctx context.Context, endpoint string, args, out any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode %s arguments: %w", endpoint, err)
	}

	var respBody []byte
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("Content-Type", "application/json")

			data, err := c.do(req)
			if err != nil {
				return err
			}

			respBody = data
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// content issues a call against the content endpoint. The argument travels
// in the Dropbox-API-Arg header, upload bytes in the request body. For
// downloads the entry metadata arrives in the Dropbox-API-Result header.
func (c *HTTPClient) content(ctx context.Context, endpoint string, args any, payload []byte) ([]byte, *Metadata, error) {
	argHeader, err := headerSafeJSON(args)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s arguments: %w", endpoint, err)
	}

	var (
		respBody []byte
		meta     *Metadata
	)
	err = retry.Do(
		func() error {
			var reqBody io.Reader
			if payload != nil {
				reqBody = bytes.NewReader(payload)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentBase+endpoint, reqBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			req.Header.Set("Dropbox-API-Arg", argHeader)
			req.Header.Set("Content-Type", "application/octet-stream")

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			data, err := c.checkResponse(resp)
			if err != nil {
				return err
			}

			respBody = data
			meta = nil
			if result := resp.Header.Get("Dropbox-API-Result"); result != "" {
				m := &Metadata{}
				if err := json.Unmarshal([]byte(result), m); err == nil {
					meta = m
				}
			}
			if meta == nil && payload == nil {
				// Downloads carry their metadata in the result header only.
				return retry.Unrecoverable(fmt.Errorf("missing Dropbox-API-Result header on %s", endpoint))
			}
			if meta == nil {
				m := &Metadata{}
				if err := json.Unmarshal(data, m); err == nil {
					meta = m
				}
			}
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, nil, err
	}

	return respBody, meta, nil
}

// do runs a request and returns the body for 200 responses, a retryable
// error for transient statuses and an unrecoverable error otherwise.
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return c.checkResponse(resp)
}

func (c *HTTPClient) checkResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return data, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.log.Debug("transient remote failure",
			"status", resp.StatusCode,
			"url", resp.Request.URL.Path)
		return nil, fmt.Errorf("dropbox: transient status %d", resp.StatusCode)
	default:
		return nil, retry.Unrecoverable(decodeAPIError(resp.StatusCode, data))
	}
}

// headerSafeJSON marshals v for transport in an HTTP header, escaping all
// non-ASCII characters which encoding/json leaves raw.
func headerSafeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, r := range string(b) {
		if r >= 0x20 && r <= 0x7e {
			sb.WriteRune(r)
			continue
		}
		for _, u := range utf16.Encode([]rune{r}) {
			fmt.Fprintf(&sb, `\u%04x`, u)
		}
	}
	return sb.String(), nil
}
