package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/jonathan/resume-forge/internal/types"
)

// Default provider endpoints
const (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	GitHubUserInfoURL = "https://api.github.com/user"
	MetaUserInfoURL   = "https://graph.facebook.com/me?fields=id,name,email,picture"
	GitHubAPIURL      = "https://api.github.com"
)

// SeedRepoCount is how many recently updated GitHub repositories become seed projects
const SeedRepoCount = 3

// Credentials is an OAuth client registration for one provider
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// OAuthProvider exchanges an authorization code for a token and reads the profile
// from the provider's user info endpoint. GitHub sign-ins also seed projects from
// the user's most recently updated repositories.
type OAuthProvider struct {
	Configs      map[types.ProviderName]*oauth2.Config
	UserInfoURLs map[types.ProviderName]string
	GitHubAPIURL string

	mu       sync.Mutex
	accounts map[string]types.ProviderName // email -> first provider used
}

// NewOAuthProvider builds configs for every provider with credentials.
func NewOAuthProvider(redirectURL string, clients map[types.ProviderName]Credentials) *OAuthProvider {
	endpoints := map[types.ProviderName]oauth2.Endpoint{
		types.ProviderGoogle: google.Endpoint,
		types.ProviderGitHub: github.Endpoint,
		types.ProviderMeta:   facebook.Endpoint,
	}
	scopes := map[types.ProviderName][]string{
		types.ProviderGoogle: {"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		types.ProviderGitHub: {"read:user", "public_repo"},
		types.ProviderMeta:   {"email", "public_profile"},
	}

	p := &OAuthProvider{
		Configs: make(map[types.ProviderName]*oauth2.Config),
		UserInfoURLs: map[types.ProviderName]string{
			types.ProviderGoogle: GoogleUserInfoURL,
			types.ProviderGitHub: GitHubUserInfoURL,
			types.ProviderMeta:   MetaUserInfoURL,
		},
		GitHubAPIURL: GitHubAPIURL,
	}
	for name, c := range clients {
		if c.ClientID == "" {
			continue
		}
		p.Configs[name] = &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint:     endpoints[name],
			Scopes:       scopes[name],
			RedirectURL:  redirectURL,
		}
	}
	return p
}

// AuthCodeURL returns the consent page URL for provider.
func (p *OAuthProvider) AuthCodeURL(provider types.ProviderName, state string) (string, error) {
	cfg, ok := p.Configs[provider]
	if !ok {
		return "", &Error{Message: MessageUnknownProvider}
	}
	return cfg.AuthCodeURL(state), nil
}

// SignIn exchanges code and fetches the user profile.
func (p *OAuthProvider) SignIn(ctx context.Context, provider types.ProviderName, code string) (*types.User, *types.SeedData, error) {
	cfg, ok := p.Configs[provider]
	if !ok {
		return nil, nil, &Error{Message: MessageUnknownProvider}
	}
	if strings.TrimSpace(code) == "" {
		return nil, nil, &Error{Message: MessageLoginCancelled}
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, nil, exchangeError(err)
	}
	client := cfg.Client(ctx, token)

	info, err := fetchProfile(ctx, client, p.UserInfoURLs[provider])
	if err != nil {
		return nil, nil, &Error{Message: MessageLoginFailed, Cause: err}
	}

	user := info.user(provider)
	if err := p.link(user); err != nil {
		return nil, nil, err
	}

	seed := &types.SeedData{
		PersonalInfo: types.PersonalInfo{
			FullName: info.displayName(),
			Email:    info.Email,
			PhotoURL: info.photo(),
		},
	}

	if provider == types.ProviderGitHub && info.Login != "" {
		seed.PersonalInfo.GitHub = "github.com/" + info.Login
		projects, err := p.recentRepos(ctx, client, info.Login)
		if err != nil {
			log.Printf("[identity] Failed to fetch GitHub repos for %s: %v", info.Login, err)
		} else {
			seed.Projects = projects
		}
	}

	return user, seed, nil
}

// link remembers which provider an email first signed in with.
func (p *OAuthProvider) link(user *types.User) error {
	if user.Email == "" {
		return nil
	}
	key := strings.ToLower(user.Email)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accounts == nil {
		p.accounts = make(map[string]types.ProviderName)
	}
	if existing, ok := p.accounts[key]; ok && existing != user.Provider {
		return &Error{Message: MessageAccountExists}
	}
	p.accounts[key] = user.Provider
	return nil
}

func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.ErrorCode == "access_denied" {
		return &Error{Message: MessageLoginCancelled, Cause: err}
	}
	return &Error{Message: MessageLoginFailed, Cause: err}
}

// profile is the union of the user info shapes returned by the three providers
type profile struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Login     string          `json:"login"`
	Email     string          `json:"email"`
	Picture   json.RawMessage `json:"picture"`
	AvatarURL string          `json:"avatar_url"`
}

func (p profile) user(provider types.ProviderName) *types.User {
	return &types.User{
		ID:       p.id(),
		Name:     p.displayName(),
		Email:    p.Email,
		PhotoURL: p.photo(),
		Provider: provider,
	}
}

// id accepts both string and numeric ids.
func (p profile) id() string {
	var s string
	if err := json.Unmarshal(p.ID, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(p.ID, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

func (p profile) displayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Login != "":
		return p.Login
	}
	return anonymousUserName
}

// photo reads Google's picture string, Meta's picture.data.url, or GitHub's avatar_url.
func (p profile) photo() string {
	if p.AvatarURL != "" {
		return p.AvatarURL
	}
	var s string
	if err := json.Unmarshal(p.Picture, &s); err == nil {
		return s
	}
	var nested struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(p.Picture, &nested); err == nil {
		return nested.Data.URL
	}
	return ""
}

func fetchProfile(ctx context.Context, client *http.Client, endpoint string) (profile, error) {
	var info profile
	if err := getJSON(ctx, client, endpoint, &info); err != nil {
		return info, fmt.Errorf("failed to fetch user information: %w", err)
	}
	return info, nil
}

type repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

func (p *OAuthProvider) recentRepos(ctx context.Context, client *http.Client, login string) ([]types.Project, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d",
		strings.TrimSuffix(p.GitHubAPIURL, "/"), url.PathEscape(login), SeedRepoCount)

	var repos []repo
	if err := getJSON(ctx, client, endpoint, &repos); err != nil {
		return nil, err
	}
	if len(repos) > SeedRepoCount {
		repos = repos[:SeedRepoCount]
	}

	projects := make([]types.Project, 0, len(repos))
	for _, r := range repos {
		projects = append(projects, RepoProject(r.Name, r.HTMLURL, r.Description, r.Language))
	}
	return projects, nil
}

// RepoProject converts a repository into a seed project.
func RepoProject(name, link, description, language string) types.Project {
	if description == "" {
		description = "Open source contribution."
	}
	shown := language
	if shown == "" {
		shown = "Code"
	}

	stack := []string{}
	if language != "" {
		stack = append(stack, language)
	}

	return types.Project{
		Name:        strings.NewReplacer("-", " ", "_", " ").Replace(name),
		Link:        link,
		Description: []string{description, "Language: " + shown},
		TechStack:   stack,
	}
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
