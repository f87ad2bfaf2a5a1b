package tokenauth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Platform is a streaming service a user prefers
type Platform = string

const (
	// PlatformSpotify is the Spotify streaming service
	PlatformSpotify Platform = "SPOTIFY"
	// PlatformAppleMusic is the Apple Music streaming service
	PlatformAppleMusic Platform = "APPLE_MUSIC"
	// PlatformSoundCloud is the SoundCloud streaming service
	PlatformSoundCloud Platform = "SOUNDCLOUD"
	// PlatformYoutubeMusic is the YouTube Music streaming service
	PlatformYoutubeMusic Platform = "YOUTUBE_MUSIC"
	// PlatformAmazonMusic is the Amazon Music streaming service
	PlatformAmazonMusic Platform = "AMAZON_MUSIC"
	// PlatformTidal is the Tidal streaming service
	PlatformTidal Platform = "TIDAL"
)

// User is the user model
type User struct {
	bun.BaseModel     `bun:"table:users,alias:usr"`
	ID                uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name              string     `bun:"name,notnull" json:"name,omitempty"`
	Username          string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email             string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash      string     `bun:"password_hash" json:"password_hash,omitempty"`
	PreferredPlatform Platform   `bun:"preferred_platform" json:"preferred_platform,omitempty"`
	ProfilePicture    string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	LoginAttempts     int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt    *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt        *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt         *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt         *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
