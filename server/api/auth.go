package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mani-shailesh/focus/internal/xrand"
	"github.com/mani-shailesh/focus/server/auth"
	"github.com/mani-shailesh/focus/server/database"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.Username == "" || body.Password == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "Username and password are required.")
		return
	}

	passwordHash, err := auth.HashPassword(body.Password)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	user, err := h.DB.CreateUser(r.Context(), database.User{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: passwordHash,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
	})
	if err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			h.respondDetail(w, r, http.StatusConflict, "A user with that username already exists.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	if err = h.createSession(w, r, user.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, newUserResponse(*user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.DB.GetUserByUsername(r.Context(), body.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.respondDetail(w, r, http.StatusUnauthorized, "Invalid username or password.")
			return
		}
		h.respondDBErr(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, body.Password) {
		h.respondDetail(w, r, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	if err = h.createSession(w, r, user.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, newUserResponse(*user))
}

func (h *handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)
	if err := h.DB.DeleteSession(r.Context(), session.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword sets a new password and invalidates all other sessions of
// the user. Users without a password, created through a social login, may
// set one without providing the old password.
func (h *handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r)

	var body changePasswordRequest
	if err := decodeJSON(r, &body); err != nil {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if body.NewPassword == "" {
		h.respondDetail(w, r, http.StatusBadRequest, "New password is required.")
		return
	}

	if session.User.PasswordHash != "" && !auth.CheckPassword(session.User.PasswordHash, body.OldPassword) {
		h.respondDetail(w, r, http.StatusUnauthorized, "Old password does not match.")
		return
	}

	passwordHash, err := auth.HashPassword(body.NewPassword)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if err = h.DB.UpdateUserPassword(r.Context(), session.User.ID, passwordHash); err != nil {
		h.respondDBErr(w, r, err)
		return
	}
	if err = h.DB.DeleteUserSessions(r.Context(), session.User.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if err = h.createSession(w, r, session.User.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.Auth.Provider(r.PathValue("provider"))
	if !ok {
		h.respondDetail(w, r, http.StatusNotFound, "Unknown login provider.")
		return
	}

	redirectURL := r.URL.Query().Get("redirect")
	if redirectURL == "" || !strings.HasPrefix(redirectURL, "/") {
		redirectURL = "/"
	}

	state, verifier := h.Auth.NewState(provider.Name, redirectURL)
	http.Redirect(w, r, provider.OAuth2.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), http.StatusTemporaryRedirect)
}

func (h *handler) SocialLoginCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errCode := query.Get("error"); errCode != "" {
		h.respondDetail(w, r, http.StatusBadRequest, fmt.Sprintf("Login failed: %s.", errCode))
		return
	}

	providerName, redirectURL, verifier, ok := h.Auth.GetState(query.Get("state"))
	if !ok || providerName != r.PathValue("provider") {
		h.respondDetail(w, r, http.StatusBadRequest, "Invalid or expired login state.")
		return
	}
	provider, ok := h.Auth.Provider(providerName)
	if !ok {
		h.respondDetail(w, r, http.StatusNotFound, "Unknown login provider.")
		return
	}

	ctx := context.WithValue(r.Context(), oauth2.HTTPClient, h.HttpClient)
	token, err := provider.OAuth2.Exchange(ctx, query.Get("code"), oauth2.VerifierOption(verifier))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to exchange oauth2 code", slog.String("provider", providerName), slog.Any("err", err))
		h.respondDetail(w, r, http.StatusBadGateway, "Login failed.")
		return
	}

	connection, user, err := fetchSocialProfile(ctx, provider, token)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch social profile", slog.String("provider", providerName), slog.Any("err", err))
		h.respondDetail(w, r, http.StatusBadGateway, "Login failed.")
		return
	}

	dbUser, err := h.DB.FindOrCreateSocialUser(ctx, connection, user)
	if err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	if err = h.createSession(w, r, dbUser.ID); err != nil {
		h.respondDBErr(w, r, err)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

type facebookProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type twitterProfile struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

// fetchSocialProfile requests the provider's profile endpoint and turns the
// response into a social connection plus the user to create on first login.
func fetchSocialProfile(ctx context.Context, provider auth.Provider, token *oauth2.Token) (database.SocialConnection, database.User, error) {
	rs, err := provider.OAuth2.Client(ctx, token).Get(provider.ProfileURL)
	if err != nil {
		return database.SocialConnection{}, database.User{}, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		return database.SocialConnection{}, database.User{}, fmt.Errorf("profile endpoint returned status %d", rs.StatusCode)
	}

	switch provider.Name {
	case auth.ProviderFacebook:
		var profile facebookProfile
		if err = json.NewDecoder(rs.Body).Decode(&profile); err != nil {
			return database.SocialConnection{}, database.User{}, fmt.Errorf("failed to decode profile: %w", err)
		}
		username := profile.FirstName + profile.LastName
		if username == "" {
			username = auth.ProviderFacebook + "_" + profile.ID
		}
		return database.SocialConnection{
				Provider:       provider.Name,
				ProviderUserID: profile.ID,
			}, database.User{
				Username:  username,
				Email:     profile.Email,
				FirstName: profile.FirstName,
				LastName:  profile.LastName,
			}, nil
	case auth.ProviderTwitter:
		var profile twitterProfile
		if err = json.NewDecoder(rs.Body).Decode(&profile); err != nil {
			return database.SocialConnection{}, database.User{}, fmt.Errorf("failed to decode profile: %w", err)
		}
		return database.SocialConnection{
				Provider:       provider.Name,
				ProviderUserID: profile.Data.ID,
			}, database.User{
				Username:  profile.Data.Username,
				FirstName: profile.Data.Name,
			}, nil
	default:
		return database.SocialConnection{}, database.User{}, fmt.Errorf("unknown provider %q", provider.Name)
	}
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request, userID int) error {
	maxAge := time.Duration(h.Cfg.Auth.SessionMaxAge)
	session := database.Session{
		ID:        xrand.RandomStr(64),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(maxAge),
	}
	if err := h.DB.CreateSession(r.Context(), session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(h.Cfg.Server.PublicURL, "https://"),
	})
	return nil
}
