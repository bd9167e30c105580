package session_test

import (
	"testing"

	"github.com/mdvohra/LMS-app/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCookieCodec(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	t.Run("round trip recovers the session id", func(t *testing.T) {
		sid := uuid.New().String()

		value, err := session.EncodeCookie(sid)
		assert.NoError(t, err)

		got, err := session.DecodeCookie(value)
		assert.NoError(t, err)
		assert.Equal(t, sid, got)
	})

	t.Run("garbage value is rejected", func(t *testing.T) {
		_, err := session.DecodeCookie("definitely-not-a-token")
		assert.ErrorIs(t, err, session.ErrInvalidCookie)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		value, err := session.EncodeCookie(uuid.New().String())
		assert.NoError(t, err)

		t.Setenv("SESSION_SECRET", "rotated-secret")
		_, err = session.DecodeCookie(value)
		assert.ErrorIs(t, err, session.ErrInvalidCookie)
	})
}
