// Package models holds the persistent document types stored in the
// document store.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account document in the "users" collection. The password is
// stored as a bcrypt hash and must never be serialized to clients.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the projection safe to return to clients.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID.Hex(), Email: u.Email}
}
