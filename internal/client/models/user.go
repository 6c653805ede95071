// Package models defines the data types exchanged with the minhwa backend
// and kept in client state.
package models

import "encoding/json"

// User is the authenticated user record, as returned by the login endpoint
// and persisted locally between runs. Beyond ID the record is opaque to the
// client.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Token string `json:"token,omitempty"`
}

// userAlias avoids recursion in UnmarshalJSON.
type userAlias User

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" key, and falls
// back from "name" to "username". The backend has emitted both shapes.
func (u *User) UnmarshalJSON(b []byte) error {
	var raw struct {
		userAlias
		MongoID  string `json:"_id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User(raw.userAlias)
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	if u.Name == "" {
		u.Name = raw.Username
	}
	return nil
}

// DisplayName returns the best human-readable label for the user.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
