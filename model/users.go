package model

import "time"

type User struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // argon2 salt$hash
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Account is the signed-in identity as seen by clients.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Account() Account {
	return Account{ID: u.UserID, Email: u.Email}
}

type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
