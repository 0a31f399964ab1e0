package entities

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	Id             string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string
	Email          string
	Password       string
	Bio            string
	ProfilePicture string
}

func NewUser(username, email, password string) *User {
	now := time.Now().UTC()
	return &User{
		CreatedAt: now,
		UpdatedAt: now,
		Username:  strings.TrimSpace(username),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
	}
}

func (u *User) validate() error {
	if u.Username == "" {
		return fmt.Errorf("%w: username must not be empty", ErrValidation)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: email must not be empty", ErrValidation)
	}
	if u.Password == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	if u.CreatedAt.After(u.UpdatedAt) {
		return fmt.Errorf("%w: created_at must be before updated_at", ErrValidation)
	}
	return nil
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// ProfileChanges carries the fields of a profile update. A nil field is left
// untouched; a non-nil field is applied even when it holds the zero value.
type ProfileChanges struct {
	Username       *string
	Bio            *string
	ProfilePicture *string
	Password       *string
}

// ApplyProfileChanges mutates the user in place. A new password is hashed
// before it is stored.
func (u *User) ApplyProfileChanges(changes ProfileChanges) error {
	if changes.Username != nil {
		u.Username = strings.TrimSpace(*changes.Username)
	}
	if changes.Bio != nil {
		u.Bio = *changes.Bio
	}
	if changes.ProfilePicture != nil {
		u.ProfilePicture = *changes.ProfilePicture
	}
	if changes.Password != nil {
		if *changes.Password == "" {
			return fmt.Errorf("%w: password must not be empty", ErrValidation)
		}
		u.Password = *changes.Password
		if err := u.HashPassword(); err != nil {
			return err
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return u.validate()
}
