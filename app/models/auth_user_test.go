package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAuthUser(t *testing.T) {
	u, err := CreateAuthUser("12345678000199", "segredo123", USER_TYPE_STORE)
	require.NoError(t, err)

	assert.Equal(t, USER_TYPE_STORE, u.UserType)
	assert.NotEqual(t, "segredo123", u.PasswordHash)
	assert.True(t, u.CheckPassword("segredo123"))
	assert.False(t, u.CheckPassword("errada"))
}

func TestCreateAuthUserRejectsBadType(t *testing.T) {
	_, err := CreateAuthUser("admin@lojify.com.br", "segredo123", "superuser")
	assert.Error(t, err)
}

func TestSetPassword(t *testing.T) {
	u := &AuthUser{Login: "admin@lojify.com.br", UserType: USER_TYPE_ADMIN}
	require.NoError(t, u.SetPassword("nova-senha"))
	assert.True(t, u.CheckPassword("nova-senha"))
}
