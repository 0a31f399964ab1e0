package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewValidatedUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		vu, err := NewValidatedUser(NewUser(" alice ", "Alice@Example.com", "secret"))
		require.NoError(t, err)
		assert.Equal(t, "alice", vu.Username)
		assert.Equal(t, "alice@example.com", vu.Email)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := NewValidatedUser(NewUser("alice", "", "secret"))
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestPasswordHashing(t *testing.T) {
	u := NewUser("alice", "alice@example.com", "secret")
	require.NoError(t, u.HashPassword())
	assert.NotEqual(t, "secret", u.Password)
	assert.NoError(t, u.CheckPassword("secret"))
	assert.Error(t, u.CheckPassword("wrong"))
}

func TestApplyProfileChanges(t *testing.T) {
	newUser := func() *User {
		u := NewUser("alice", "alice@example.com", "secret")
		u.Bio = "long AAPL"
		u.ProfilePicture = "https://img.example.com/a.png"
		require.NoError(t, u.HashPassword())
		return u
	}

	t.Run("absent fields are left untouched", func(t *testing.T) {
		u := newUser()
		require.NoError(t, u.ApplyProfileChanges(ProfileChanges{Username: strPtr("alice2")}))
		assert.Equal(t, "alice2", u.Username)
		assert.Equal(t, "long AAPL", u.Bio)
		assert.Equal(t, "https://img.example.com/a.png", u.ProfilePicture)
		assert.NoError(t, u.CheckPassword("secret"))
	})

	t.Run("empty bio clears it", func(t *testing.T) {
		u := newUser()
		require.NoError(t, u.ApplyProfileChanges(ProfileChanges{Bio: strPtr("")}))
		assert.Equal(t, "", u.Bio)
	})

	t.Run("new password is rehashed", func(t *testing.T) {
		u := newUser()
		require.NoError(t, u.ApplyProfileChanges(ProfileChanges{Password: strPtr("hunter2")}))
		assert.NotEqual(t, "hunter2", u.Password)
		assert.NoError(t, u.CheckPassword("hunter2"))
	})

	t.Run("empty username is rejected", func(t *testing.T) {
		u := newUser()
		err := u.ApplyProfileChanges(ProfileChanges{Username: strPtr("  ")})
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		u := newUser()
		err := u.ApplyProfileChanges(ProfileChanges{Password: strPtr("")})
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestPostValidate(t *testing.T) {
	p := NewPost("u1", "AAPL", "t", "d", nil)
	require.NoError(t, p.Validate())
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, 0, p.LikesCount)

	for name, post := range map[string]*Post{
		"symbol":      NewPost("u1", "", "t", "d", nil),
		"title":       NewPost("u1", "AAPL", "", "d", nil),
		"description": NewPost("u1", "AAPL", "t", "", nil),
	} {
		t.Run("missing "+name, func(t *testing.T) {
			assert.True(t, errors.Is(post.Validate(), ErrValidation))
		})
	}
}
