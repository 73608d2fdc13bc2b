package userservice

import (
	"database/sql"
	"time"

	"github.com/kecbiofuel/blogapi/internal/common"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type UserService struct {
	m      *DBModel
	mb     common.MessageProducer
	tokens *TokenManager
	google GoogleProvider
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Password     Password     `json:"-"`
	GoogleID     *string      `json:"-"`
	AuthProvider AuthProvider `json:"auth_provider"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Version      int          `json:"version"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// UserSummary is the shape returned alongside a freshly issued token.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Profile is the shape returned by the profile endpoint.
type Profile struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	AuthProvider AuthProvider `json:"auth_provider"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, AuthProvider: u.AuthProvider}
}

// AuthResult couples an issued bearer token with the authenticated user.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
