package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"anoa.com/socialblog/internal/entity"
	authDto "anoa.com/socialblog/internal/modules/auth/dto"
	"anoa.com/socialblog/internal/session"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	principalPrefix   = "google:"
	syncTimeout       = 10 * time.Second
)

// PrincipalSyncer mirrors a freshly authenticated principal into storage.
type PrincipalSyncer interface {
	SyncPrincipal(ctx context.Context, principal entity.Principal)
}

type AuthService interface {
	GoogleLogin(state string) string
	GoogleCallback(ctx context.Context, code string) (*authDto.AuthResponse, error)
	// Establish issues a session for principal and starts a profile sync in
	// the background.
	Establish(ctx context.Context, principal entity.Principal) (*authDto.AuthResponse, error)
}

type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type authService struct {
	sessions     *session.Manager
	profiles     PrincipalSyncer
	googleConfig *oauth2.Config
	userInfoURL  string
	log          *zap.Logger
}

func NewAuthService(sessions *session.Manager, profiles PrincipalSyncer, opts GoogleOptions, log *zap.Logger) AuthService {
	googleConfig := &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RedirectURL:  opts.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &authService{
		sessions:     sessions,
		profiles:     profiles,
		googleConfig: googleConfig,
		userInfoURL:  googleUserInfoURL,
		log:          log,
	}
}

func (s *authService) GoogleLogin(state string) string {
	return s.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*authDto.AuthResponse, error) {
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	client := s.googleConfig.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}

	var info authDto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, errors.New("user info has no account id")
	}

	return s.Establish(ctx, principalFromGoogle(info))
}

func (s *authService) Establish(ctx context.Context, principal entity.Principal) (*authDto.AuthResponse, error) {
	token, expiresAt, err := s.sessions.Issue(principal)
	if err != nil {
		return nil, err
	}

	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), syncTimeout)
	go func() {
		defer cancel()
		s.profiles.SyncPrincipal(syncCtx, principal)
	}()

	return &authDto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		Principal:   principal,
	}, nil
}

func principalFromGoogle(info authDto.GoogleUserInfo) entity.Principal {
	p := entity.Principal{
		ID:        principalPrefix + info.ID,
		FullName:  info.Name,
		FirstName: info.GivenName,
	}
	if info.Picture != "" {
		picture := info.Picture
		p.AvatarURL = &picture
	}
	if info.Email != "" && info.VerifiedEmail {
		email := info.Email
		p.PrimaryEmail = &email
	}
	return p
}
