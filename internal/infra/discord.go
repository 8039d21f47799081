package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"linkbio/internal/config"
)

const discordAPI = "https://discord.com/api"

var discordEndpoint = oauth2.Endpoint{
	AuthURL:   discordAPI + "/oauth2/authorize",
	TokenURL:  discordAPI + "/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// DiscordUser is the subset of /users/@me the sign-in flow needs.
type DiscordUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	Email    *string `json:"email"`
	Verified bool    `json:"verified"`
}

// AvatarURL builds the CDN url; animated hashes start with "a_".
func (u DiscordUser) AvatarURL() *string {
	if u.Avatar == nil || *u.Avatar == "" {
		return nil
	}
	ext := "png"
	if strings.HasPrefix(*u.Avatar, "a_") {
		ext = "gif"
	}
	url := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.%s?size=256", u.ID, *u.Avatar, ext)
	return &url
}

type DiscordClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, *DiscordUser, error)
}

type discordClient struct {
	oauth *oauth2.Config
}

func NewDiscordClient(cfg config.Config) DiscordClient {
	return &discordClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.Discord.ClientID,
			ClientSecret: cfg.Discord.ClientSecret,
			RedirectURL:  cfg.Discord.RedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint:     discordEndpoint,
		},
	}
}

func (d *discordClient) AuthCodeURL(state string) string {
	return d.oauth.AuthCodeURL(state)
}

func (d *discordClient) Exchange(ctx context.Context, code string) (*oauth2.Token, *DiscordUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := d.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("discord code exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordAPI+"/users/@me", nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := d.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("discord user lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("discord user lookup: status %d", resp.StatusCode)
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, nil, fmt.Errorf("discord user decode: %w", err)
	}
	return token, &user, nil
}
