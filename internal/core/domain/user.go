package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account in the domain.
// PasswordHash and RefreshToken are storage-only fields and are never
// serialized into a response.
type User struct {
	ID           bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserName     string          `bson:"userName" json:"userName"` // lowercased at creation
	Email        string          `bson:"email" json:"email"`
	FullName     string          `bson:"fullName" json:"fullName"`
	Avatar       string          `bson:"avatar" json:"avatar"`
	CoverImage   string          `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	PasswordHash string          `bson:"passwordHash" json:"-"`
	RefreshToken string          `bson:"refreshToken,omitempty" json:"-"`
	WatchHistory []bson.ObjectID `bson:"watchHistory,omitempty" json:"-"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// HasActiveSession reports whether a refresh token is currently bound to the
// account.
func (u *User) HasActiveSession() bool {
	return u.RefreshToken != ""
}

// Sanitized returns a copy with the credential fields blanked, safe to hand
// to transport layers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}
