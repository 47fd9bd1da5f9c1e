package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"storefront/console/internal/model"
)

// CookieStore keeps the token and user in the browser's cookies for the
// lifetime of one request. Writes are visible to later reads within the
// same request.
type CookieStore struct {
	mu     sync.Mutex
	r      *http.Request
	w      http.ResponseWriter
	secure bool
	now    func() time.Time

	token   *string
	user    *model.User
	touched bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure, now: time.Now}
}

func (s *CookieStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		return *s.token
	}
	c, err := s.r.Cookie(TokenKey)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &token
	http.SetCookie(s.w, s.cookie(TokenKey, token))
	return nil
}

func (s *CookieStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.touched {
		if s.user == nil {
			return nil
		}
		u := *s.user
		return &u
	}
	c, err := s.r.Cookie(UserKey)
	if err != nil {
		return nil
	}
	u, err := decodeUser(c.Value)
	if err != nil {
		return nil
	}
	return u
}

func (s *CookieStore) SetUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := encodeUser(user)
	if err != nil {
		return err
	}
	s.user = &user
	s.touched = true
	http.SetCookie(s.w, s.cookie(UserKey, value))
	return nil
}

func (s *CookieStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := ""
	s.token = &empty
	s.user = nil
	s.touched = true
	for _, name := range []string{TokenKey, UserKey} {
		c := s.cookie(name, "")
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(s.w, c)
	}
	return nil
}

func (s *CookieStore) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  s.now().Add(TokenTTL),
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func encodeUser(u model.User) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeUser(value string) (*model.User, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
