package apiclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const mediaType = "application/vnd.api+json"

// Заголовки подписи запросов от имени пользователя
const (
	HeaderPlatform  = "X-Platform"
	HeaderSocialID  = "X-Social-Id"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
	HeaderSignature = "X-Signature"
)

// Config настройки клиента API
type Config struct {
	BaseURL    string
	HMACSecret string
	Platform   string
	Timeout    time.Duration
}

// Client клиент JSON:API хранилища ресурсов
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	secret     []byte
	platform   string
	logger     *zap.Logger
	now        func() time.Time
}

// New создаёт клиент
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute: %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		secret:     []byte(cfg.HMACSecret),
		platform:   cfg.Platform,
		logger:     logger,
		now:        time.Now,
	}, nil
}

type userKey struct{}

// WithUser помечает контекст пользователем, от имени которого идут запросы
func WithUser(ctx context.Context, socialID int64) context.Context {
	return context.WithValue(ctx, userKey{}, strconv.FormatInt(socialID, 10))
}

func userFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userKey{}).(string)
	return v, ok && v != ""
}

// Get получает один ресурс. id может быть пустым для путей вида users/me.
func (c *Client) Get(ctx context.Context, resourceType, id string, q Query) (*Document, error) {
	return c.do(ctx, "get "+resourceType, http.MethodGet, resourcePath(resourceType, id), q.Values(), nil)
}

// List получает коллекцию ресурсов
func (c *Client) List(ctx context.Context, resourceType string, q Query) (*Document, error) {
	return c.do(ctx, "list "+resourceType, http.MethodGet, resourcePath(resourceType, ""), q.Values(), nil)
}

// Create создаёт ресурс
func (c *Client) Create(ctx context.Context, res Resource) (*Document, error) {
	return c.Post(ctx, resourcePath(res.Type, ""), res)
}

// Post отправляет ресурс на произвольный путь относительно базового url
func (c *Client) Post(ctx context.Context, path string, res Resource) (*Document, error) {
	body, err := json.Marshal(Document{Data: mustRaw(res)})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", res.Type, err)
	}
	return c.do(ctx, "create "+res.Type, http.MethodPost, path, nil, body)
}

// Delete удаляет ресурс
func (c *Client) Delete(ctx context.Context, resourceType, id string) error {
	_, err := c.do(ctx, "delete "+resourceType, http.MethodDelete, resourcePath(resourceType, id), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body []byte) (*Document, error) {
	u := *c.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", mediaType)
	if body != nil {
		req.Header.Set("Content-Type", mediaType)
	}
	c.sign(ctx, req, body)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	var doc Document
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			if resp.StatusCode >= 400 {
				return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
			}
			return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrSchema, err)}
		}
	}

	if resp.StatusCode >= 400 {
		re := &RemoteError{Op: op, StatusCode: resp.StatusCode, Detail: errorDetail(doc.Errors)}
		if resp.StatusCode == http.StatusNotFound {
			re.Err = ErrNotFound
		}
		return nil, re
	}

	return &doc, nil
}

// sign добавляет HMAC-подпись, если в контексте есть пользователь и задан секрет
func (c *Client) sign(ctx context.Context, req *http.Request, body []byte) {
	if c.platform != "" {
		req.Header.Set(HeaderPlatform, c.platform)
	}
	socialID, ok := userFrom(ctx)
	if !ok {
		return
	}
	req.Header.Set(HeaderSocialID, socialID)
	if len(c.secret) == 0 {
		return
	}

	timestamp := strconv.FormatInt(c.now().Unix(), 10)
	nonce := uuid.NewString()
	req.Header.Set(HeaderTimestamp, timestamp)
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderSignature, Signature(c.secret, req.Method, req.URL.RequestURI(), timestamp, nonce, socialID, body))
}

// Signature считает подпись запроса: HMAC-SHA256 от канонической строки
// method \n uri \n timestamp \n nonce \n socialID \n sha256(body)
func Signature(secret []byte, method, uri, timestamp, nonce, socialID string, body []byte) string {
	bodyHash := sha256.Sum256(body)
	canonical := strings.Join([]string{
		method,
		uri,
		timestamp,
		nonce,
		socialID,
		hex.EncodeToString(bodyHash[:]),
	}, "\n")

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func resourcePath(resourceType, id string) string {
	if id == "" {
		return resourceType + "/"
	}
	return resourceType + "/" + id + "/"
}

func errorDetail(errs []ErrorObject) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		switch {
		case e.Detail != "":
			parts = append(parts, e.Detail)
		case e.Title != "":
			parts = append(parts, e.Title)
		}
	}
	return strings.Join(parts, "; ")
}

func mustRaw(res Resource) json.RawMessage {
	raw, _ := json.Marshal(res)
	return raw
}
