package users

import "time"

// User is the account record. Field names double as the users/<uid>
// Firestore document layout.
type User struct {
	UID          string    `json:"uid" firestore:"uid"`
	Email        string    `json:"email" firestore:"email"`
	DisplayName  string    `json:"displayName" firestore:"displayName"`
	PhotoURL     string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Provider     string    `json:"provider" firestore:"provider"`
	PasswordHash string    `json:"-" firestore:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
	ResumeCount  int       `json:"resumeCount" firestore:"resumeCount"`
	LastLogin    time.Time `json:"lastLogin" firestore:"lastLogin"`
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)
