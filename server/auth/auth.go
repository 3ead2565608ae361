package auth

import (
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/mani-shailesh/focus/internal/xrand"
)

// MaxLoginFlowDuration is how long a started OAuth login flow stays valid.
const MaxLoginFlowDuration = 30 * time.Minute

const (
	ProviderFacebook = "facebook"
	ProviderTwitter  = "twitter"
)

// Provider bundles the oauth2 client config of a social application with the
// URL of the profile endpoint used to identify the logged in user.
type Provider struct {
	Name       string
	OAuth2     *oauth2.Config
	ProfileURL string
}

type loginState struct {
	Provider    string
	RedirectURL string
	Verifier    string
	CreatedAt   time.Time
}

func (s loginState) IsExpired() bool {
	return time.Since(s.CreatedAt) > MaxLoginFlowDuration
}

func New(cfg Config, publicURL string) *Auth {
	providers := make(map[string]Provider)
	if cfg.Facebook.Configured() {
		providers[ProviderFacebook] = Provider{
			Name: ProviderFacebook,
			OAuth2: &oauth2.Config{
				ClientID:     cfg.Facebook.ClientID,
				ClientSecret: cfg.Facebook.ClientSecret,
				Endpoint:     endpoints.Facebook,
				RedirectURL:  publicURL + "/auth/facebook/callback",
				Scopes:       []string{"public_profile", "email"},
			},
			ProfileURL: "https://graph.facebook.com/v19.0/me?fields=id,email,first_name,last_name",
		}
	}
	if cfg.Twitter.Configured() {
		providers[ProviderTwitter] = Provider{
			Name: ProviderTwitter,
			OAuth2: &oauth2.Config{
				ClientID:     cfg.Twitter.ClientID,
				ClientSecret: cfg.Twitter.ClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://twitter.com/i/oauth2/authorize",
					TokenURL: "https://api.twitter.com/2/oauth2/token",
				},
				RedirectURL: publicURL + "/auth/twitter/callback",
				Scopes:      []string{"users.read", "tweet.read"},
			},
			ProfileURL: "https://api.twitter.com/2/users/me",
		}
	}

	a := &Auth{
		cfg:       cfg,
		providers: providers,
		states:    make(map[string]loginState),
	}

	go a.cleanupStates()

	return a
}

type Auth struct {
	cfg       Config
	providers map[string]Provider
	states    map[string]loginState
	statesMu  sync.Mutex
}

func (a *Auth) Provider(name string) (Provider, bool) {
	provider, ok := a.providers[name]
	return provider, ok
}

// NewState registers a new login flow and returns its state token. The
// returned verifier is the PKCE code verifier to use on the token exchange.
func (a *Auth) NewState(provider string, redirectURL string) (state string, verifier string) {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	state = xrand.RandomStr(32)
	verifier = oauth2.GenerateVerifier()
	a.states[state] = loginState{
		Provider:    provider,
		RedirectURL: redirectURL,
		Verifier:    verifier,
		CreatedAt:   time.Now(),
	}
	return state, verifier
}

// GetState consumes the state token and returns the flow it belongs to.
func (a *Auth) GetState(state string) (provider string, redirectURL string, verifier string, ok bool) {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	lState, ok := a.states[state]
	if ok {
		delete(a.states, state)
	}

	if lState.IsExpired() {
		return "", "", "", false
	}

	return lState.Provider, lState.RedirectURL, lState.Verifier, ok
}

func (a *Auth) cleanupStates() {
	for {
		a.doCleanupStates()
		time.Sleep(10 * time.Minute)
	}
}

func (a *Auth) doCleanupStates() {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()

	for state, lState := range a.states {
		if lState.IsExpired() {
			delete(a.states, state)
		}
	}
}
