package session

import (
	"testing"
	"time"

	"anoa.com/socialblog/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour)
	avatar := "https://img.example.com/a.png"

	token, expiresAt, err := m.Issue(entity.Principal{
		ID:        "google:42",
		FullName:  "Ada Lovelace",
		FirstName: "Ada",
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "google:42", p.ID)
	assert.Equal(t, "Ada Lovelace", p.FullName)
	assert.Equal(t, "Ada", p.FirstName)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, avatar, *p.AvatarURL)
	assert.Nil(t, p.PrimaryEmail)
}

func TestParseRejects(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, _, err := m.Issue(entity.Principal{ID: "u1"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssueRequiresID(t *testing.T) {
	_, _, err := NewManager("secret", time.Hour).Issue(entity.Principal{})
	assert.Error(t, err)
}
