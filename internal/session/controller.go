// Package session owns the authentication state of one client: which user is
// signed in, the transitions between states, and where the UI goes next.
package session

import (
	"context"
	"fmt"
	"sync"

	"storefront/console/internal/logx"
	"storefront/console/internal/model"
	"storefront/console/internal/service"
	"storefront/console/internal/store"
)

const (
	HomePath   = "/"
	SignInPath = "/sign-in"
)

type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Authenticator interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.AuthResponse, error)
	Signup(ctx context.Context, req service.SignupRequest) (*service.AuthResponse, error)
}

// Navigator moves the UI to path.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Listener is called after every state change.
type Listener func(state State, user *model.User)

type Controller struct {
	store store.Store
	auth  Authenticator
	nav   Navigator

	mu        sync.Mutex
	state     State
	user      *model.User
	listeners []Listener
}

func NewController(st store.Store, auth Authenticator, nav Navigator) *Controller {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Controller{store: st, auth: auth, nav: nav, state: StateLoading}
}

// Restore loads the persisted user. A stored user counts as signed in; the
// token itself is checked by the next API call.
func (c *Controller) Restore() State {
	user := c.store.User()

	c.mu.Lock()
	c.user = user
	if user != nil {
		c.state = StateAuthenticated
	} else {
		c.state = StateUnauthenticated
	}
	state := c.state
	c.mu.Unlock()

	c.notify(state, user)
	return state
}

func (c *Controller) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) User() *model.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Controller) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// Token implements apiclient.Credentials.
func (c *Controller) Token() string {
	return c.store.Token()
}

func (c *Controller) Login(ctx context.Context, email, password string) error {
	resp, err := c.auth.Login(ctx, service.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return c.establish(resp)
}

func (c *Controller) Signup(ctx context.Context, fullName, email, mobileNo, password string) error {
	resp, err := c.auth.Signup(ctx, service.SignupRequest{
		FullName: fullName,
		Email:    email,
		MobileNo: mobileNo,
		Password: password,
	})
	if err != nil {
		return err
	}
	return c.establish(resp)
}

func (c *Controller) establish(resp *service.AuthResponse) error {
	if err := c.store.SetToken(resp.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := c.store.SetUser(resp.User); err != nil {
		if cerr := c.store.Clear(); cerr != nil {
			logx.Error().Err(cerr).Msg("failed to clear partial session")
		}
		return fmt.Errorf("store user: %w", err)
	}

	c.set(StateAuthenticated, &resp.User)
	logx.Info().Int("user_id", resp.User.ID).Msg("signed in")
	c.nav.Navigate(HomePath)
	return nil
}

func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.Clear()
	c.set(StateUnauthenticated, nil)
	c.nav.Navigate(SignInPath)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Expire tears the session down after the backend rejected its token.
// It implements apiclient.Credentials.
func (c *Controller) Expire(ctx context.Context) {
	logx.Warn().Msg("session rejected by backend, signing out")
	if err := c.Logout(ctx); err != nil {
		logx.Error().Err(err).Msg("failed to clear expired session")
	}
}

// UpdateUser replaces the signed-in user after a profile change.
func (c *Controller) UpdateUser(user model.User) error {
	if err := c.store.SetUser(user); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	c.set(StateAuthenticated, &user)
	return nil
}

func (c *Controller) set(state State, user *model.User) {
	c.mu.Lock()
	c.state = state
	c.user = user
	c.mu.Unlock()
	c.notify(state, user)
}

func (c *Controller) notify(state State, user *model.User) {
	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(state, user)
	}
}
