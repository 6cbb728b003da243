package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/suyash01/expensehub/internal/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks . Gateway

// Gateway is the external auth service. Admin calls act on behalf of the
// caller whose credentials are in header.
type Gateway interface {
	GetSession(ctx context.Context, header http.Header) (*Session, error)
	ListUsers(ctx context.Context, header http.Header, limit int) ([]models.User, error)
	SetRole(ctx context.Context, header http.Header, userID string, role models.Role) error
	BanUser(ctx context.Context, header http.Header, userID, reason string) error
	UnbanUser(ctx context.Context, header http.Header, userID string) error
}

type Session struct {
	User      SessionUser `json:"user"`
	ExpiresAt time.Time   `json:"-"`
}

type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HTTPGateway talks to a better-auth compatible service over HTTP.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

var _ Gateway = (*HTTPGateway)(nil)

// forwarded are the request headers that carry the caller's credentials.
var forwarded = []string{"Cookie", "Authorization"}

func (g *HTTPGateway) do(ctx context.Context, method, path string, header http.Header, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	for _, h := range forwarded {
		if v := header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetSession returns nil without error when the service reports no session.
func (g *HTTPGateway) GetSession(ctx context.Context, header http.Header) (*Session, error) {
	var payload *struct {
		Session struct {
			ExpiresAt time.Time `json:"expiresAt"`
		} `json:"session"`
		User SessionUser `json:"user"`
	}
	if err := g.do(ctx, http.MethodGet, "/api/auth/get-session", header, nil, &payload); err != nil {
		return nil, err
	}
	if payload == nil || payload.User.ID == "" {
		return nil, nil
	}
	return &Session{User: payload.User, ExpiresAt: payload.Session.ExpiresAt}, nil
}

type gatewayUser struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Banned     *bool      `json:"banned"`
	BanReason  *string    `json:"banReason"`
	BanExpires *time.Time `json:"banExpires"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (u gatewayUser) model() models.User {
	return models.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       models.Role(u.Role),
		Banned:     u.Banned != nil && *u.Banned,
		BanReason:  u.BanReason,
		BanExpires: u.BanExpires,
		CreatedAt:  u.CreatedAt,
	}
}

func (g *HTTPGateway) ListUsers(ctx context.Context, header http.Header, limit int) ([]models.User, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var payload struct {
		Users []gatewayUser `json:"users"`
	}
	if err := g.do(ctx, http.MethodGet, "/api/auth/admin/list-users?"+q.Encode(), header, nil, &payload); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(payload.Users))
	for _, u := range payload.Users {
		users = append(users, u.model())
	}
	return users, nil
}

func (g *HTTPGateway) SetRole(ctx context.Context, header http.Header, userID string, role models.Role) error {
	body := map[string]string{"userId": userID, "role": string(role)}
	return g.do(ctx, http.MethodPost, "/api/auth/admin/set-role", header, body, nil)
}

func (g *HTTPGateway) BanUser(ctx context.Context, header http.Header, userID, reason string) error {
	body := map[string]string{"userId": userID, "banReason": reason}
	return g.do(ctx, http.MethodPost, "/api/auth/admin/ban-user", header, body, nil)
}

func (g *HTTPGateway) UnbanUser(ctx context.Context, header http.Header, userID string) error {
	body := map[string]string{"userId": userID}
	return g.do(ctx, http.MethodPost, "/api/auth/admin/unban-user", header, body, nil)
}
