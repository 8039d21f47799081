package response_models

import "linkbio/internal/models/db_models"

type UserResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            *string `json:"email"`
	EmailVerified    bool    `json:"emailVerified"`
	Image            *string `json:"image"`
	ImageProvider    *string `json:"imageProvider"`
	DiscordAvatarURL *string `json:"discordAvatarUrl"`
	Role             string  `json:"role"`
	StripeCustomerID *string `json:"stripeCustomerId"`
	HasPassword      bool    `json:"hasPassword"`
	DiscordLinked    bool    `json:"discordLinked"`
}

func NewUserResponse(u *db_models.User, discordLinked bool) UserResponse {
	return UserResponse{
		ID:               u.ID.String(),
		Name:             u.Name,
		Email:            u.Email,
		EmailVerified:    u.EmailVerified,
		Image:            u.Image,
		ImageProvider:    u.ImageProvider,
		DiscordAvatarURL: u.DiscordAvatarURL,
		Role:             u.Role,
		StripeCustomerID: u.StripeCustomerID,
		HasPassword:      u.HasPassword(),
		DiscordLinked:    discordLinked,
	}
}

// PublicProfile is the part of a user shown on public pages.
type PublicProfile struct {
	Name          string  `json:"name"`
	Image         *string `json:"image"`
	ImageProvider *string `json:"imageProvider"`
	Role          string  `json:"role"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
