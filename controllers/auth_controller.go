package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"inkwell/config"
	"inkwell/middleware"
	"inkwell/models"
	"inkwell/repository"
	"inkwell/utils"
)

// AuthController handles local accounts and third-party sign-in.
type AuthController struct {
	repos *repository.Repositories
}

// NewAuthController creates an AuthController instance.
func NewAuthController(repos *repository.Repositories) *AuthController {
	return &AuthController{repos: repos}
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

// LoginForm renders the login page.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", view(ctx, nil))
}

// Login verifies credentials and issues the session cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	password := ctx.PostForm("password")

	fail := func() {
		ctx.HTML(http.StatusOK, "login.html", view(ctx, gin.H{
			"Error":    "Invalid username or password.",
			"Username": username,
		}))
	}

	if username == "" || password == "" {
		fail()
		return
	}

	user, err := a.repos.Users.ByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail()
			return
		}
		utils.Sugar.Errorf("login lookup for %q failed: %v", username, err)
		renderServerError(ctx)
		return
	}

	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, password) {
		fail()
		return
	}

	if err := utils.IssueSessionCookie(ctx, user.ID, user.Username); err != nil {
		utils.Sugar.Errorf("issue session for %q failed: %v", username, err)
		renderServerError(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if raw, exists := ctx.Get(middleware.ContextSessionTokenKey); exists {
		if token, ok := raw.(string); ok && token != "" {
			if claims, err := utils.ParseSessionToken(token); err == nil && claims.ExpiresAt != nil {
				utils.RevokeSessionToken(token, claims.ExpiresAt.Time)
			}
		}
	}
	utils.ClearSessionCookie(ctx)
	ctx.Redirect(http.StatusFound, "/")
}

// RegistrationForm renders the account creation page.
func (a *AuthController) RegistrationForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "registration.html", view(ctx, nil))
}

// Register creates a local account, signs the new user in, and redirects to
// the index.
func (a *AuthController) Register(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.PostForm("username"))
	email := strings.TrimSpace(ctx.PostForm("email"))
	password := ctx.PostForm("password")
	confirm := ctx.PostForm("confirm")

	errs := map[string]string{}
	if !usernameRe.MatchString(username) {
		errs["Username"] = "Username must be 3-64 letters, digits, dots, dashes or underscores."
	}
	if len(password) < 6 {
		errs["Password"] = "Password must be at least 6 characters."
	}
	if password != confirm {
		errs["Confirm"] = "Passwords do not match."
	}

	if len(errs) == 0 {
		if _, err := a.repos.Users.ByUsername(username); err == nil {
			errs["Username"] = "Username is already taken."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Errorf("registration lookup for %q failed: %v", username, err)
			renderServerError(ctx)
			return
		}
	}

	if len(errs) > 0 {
		ctx.HTML(http.StatusOK, "registration.html", view(ctx, gin.H{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
		}))
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		utils.Sugar.Errorf("hash password failed: %v", err)
		renderServerError(ctx)
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Provider:     "local",
	}
	if err := a.repos.Users.Create(&user); err != nil {
		utils.Sugar.Errorf("create user %q failed: %v", username, err)
		renderServerError(ctx)
		return
	}

	if err := utils.IssueSessionCookie(ctx, user.ID, user.Username); err != nil {
		utils.Sugar.Errorf("issue session for %q failed: %v", username, err)
		renderServerError(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

// OAuthRedirect sends the client to the provider's authorization page.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	provider := ctx.Param("provider")
	cfg, err := oauthConfig(provider)
	if err != nil {
		renderNotFound(ctx)
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	ctx.Redirect(http.StatusFound, cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// OAuthCallback exchanges the authorization code, finds or creates the matching
// account, and issues the session cookie.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	provider := ctx.Param("provider")
	code := ctx.Query("code")
	state := ctx.Query("state")

	if code == "" || state == "" || !utils.ConsumeState(state) {
		renderNotFound(ctx)
		return
	}

	cfg, err := oauthConfig(provider)
	if err != nil {
		renderNotFound(ctx)
		return
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		utils.Sugar.Warnf("oauth code exchange failed for %s: %v", provider, err)
		renderNotFound(ctx)
		return
	}

	info, err := fetchOAuthUser(provider, token)
	if err != nil {
		utils.Sugar.Errorf("oauth user fetch failed for %s: %v", provider, err)
		renderServerError(ctx)
		return
	}

	user, err := a.findOrCreateOAuthUser(provider, info)
	if err != nil {
		utils.Sugar.Errorf("persist oauth user failed for %s: %v", provider, err)
		renderServerError(ctx)
		return
	}

	if err := utils.IssueSessionCookie(ctx, user.ID, user.Username); err != nil {
		utils.Sugar.Errorf("issue session for %q failed: %v", user.Username, err)
		renderServerError(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, "/")
}

type oauthUser struct {
	ID       string
	Username string
	Email    string
}

func (a *AuthController) findOrCreateOAuthUser(provider string, data *oauthUser) (*models.User, error) {
	user, err := a.repos.Users.ByProvider(provider, data.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.User{
		Username:   a.ensureUniqueUsername(data.Username, provider, data.ID),
		Email:      strings.TrimSpace(data.Email),
		Provider:   provider,
		ProviderID: data.ID,
	}
	if err := a.repos.Users.Create(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ensureUniqueUsername derives a free username from the provider handle.
func (a *AuthController) ensureUniqueUsername(base, provider, providerID string) string {
	candidate := strings.TrimSpace(base)
	if candidate == "" || !usernameRe.MatchString(candidate) {
		candidate = provider + "_" + providerID
	}
	name := candidate
	for i := 1; ; i++ {
		_, err := a.repos.Users.ByUsername(name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return name
		}
		name = fmt.Sprintf("%s%d", candidate, i)
	}
}

func oauthConfig(provider string) (*oauth2.Config, error) {
	cfg := config.Get()
	switch strings.ToLower(provider) {
	case "github":
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, fmt.Errorf("github oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  fmt.Sprintf("%s/auth/oauth/github/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google oauth not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  fmt.Sprintf("%s/auth/oauth/google/callback", cfg.OAuthRedirectBase),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchOAuthUser(provider string, token *oauth2.Token) (*oauthUser, error) {
	switch strings.ToLower(provider) {
	case "github":
		return fetchGitHubUser(token)
	case "google":
		return fetchGoogleUser(token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func fetchGitHubUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:       fmt.Sprintf("%d", payload.ID),
		Username: payload.Login,
		Email:    payload.Email,
	}, nil
}

func fetchGoogleUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest(http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info request failed: %s", resp.Status)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &oauthUser{
		ID:       payload.ID,
		Username: payload.Email,
		Email:    payload.Email,
	}, nil
}
