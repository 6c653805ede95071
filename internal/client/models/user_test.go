package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalPlainID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","name":"Jin","email":"jin@example.org"}`), &u))

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Jin", u.Name)
	assert.Equal(t, "jin@example.org", u.Email)
}

func TestUser_UnmarshalMongoID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"64fa","username":"jin"}`), &u))

	assert.Equal(t, "64fa", u.ID)
	assert.Equal(t, "jin", u.Name)
}

func TestUser_UnmarshalIDWinsOverMongoID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","_id":"64fa"}`), &u))

	assert.Equal(t, "u1", u.ID)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "", (*User)(nil).DisplayName())
	assert.Equal(t, "Jin", (&User{Name: "Jin", Email: "j@x"}).DisplayName())
	assert.Equal(t, "j@x", (&User{Email: "j@x"}).DisplayName())
}
