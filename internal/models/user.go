package models

import "time"

// User is an account record. Username is the lookup key.
type User struct {
	Username     string    `json:"username"   bson:"username"`
	Email        string    `json:"email"      bson:"email"`
	PasswordHash string    `json:"-"          bson:"password"` // never serialize
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
