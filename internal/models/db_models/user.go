package db_models

const (
	RoleFree    = "FREE"
	RolePremium = "PREMIUM"
)

type User struct {
	BaseModel
	Name             string  `gorm:"size:100" json:"name"`
	Email            *string `gorm:"uniqueIndex" json:"email"`
	EmailVerified    bool    `gorm:"not null;default:false" json:"emailVerified"`
	PasswordHash     *string `json:"-"`
	Image            *string `json:"image"`
	ImageProvider    *string `json:"imageProvider"`
	DiscordAvatarURL *string `json:"discordAvatarUrl"`
	Role             string  `gorm:"size:16;not null;default:FREE" json:"role"`
	StripeCustomerID *string `gorm:"uniqueIndex" json:"stripeCustomerId"`

	Accounts []Account `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Pages    []Page    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) IsPremium() bool {
	return u.Role == RolePremium
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
