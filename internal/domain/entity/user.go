package entity

import (
	"time"
)

type User struct {
	ID           string    `json:"id" firestore:"id"`
	FirstName    string    `json:"firstName" firestore:"firstName"`
	LastName     string    `json:"lastName" firestore:"lastName"`
	Username     string    `json:"username" firestore:"username"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"-" firestore:"password"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt"`
}
