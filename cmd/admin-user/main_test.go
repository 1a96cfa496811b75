package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/chess-academy-site/internal/models"
)

func TestBuildUserHashesPassword(t *testing.T) {
	user, err := buildUser("  Coach@Example.com ", "correct-horse", "Coach", "editor")
	require.NoError(t, err)

	assert.Equal(t, "coach@example.com", user.Email)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestBuildUserRejectsBadInput(t *testing.T) {
	cases := map[string][3]string{
		"missing email":  {"", "correct-horse", "ADMIN"},
		"short password": {"a@b.co", "short", "ADMIN"},
		"unknown role":   {"a@b.co", "correct-horse", "OWNER"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildUser(tc[0], tc[1], "x", tc[2])
			assert.Error(t, err)
		})
	}
}
