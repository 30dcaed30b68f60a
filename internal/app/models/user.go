package models

// User is an account created on first Google sign-in
type User struct {
	Base     `bson:",inline"`
	GoogleID string `json:"googleId" bson:"googleId"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Provider string `json:"provider" bson:"provider"`
}
