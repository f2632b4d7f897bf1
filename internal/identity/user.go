package identity

import "time"

// User is a stored account. Password is a bcrypt hash; OTP and token fields
// are cleared on successful use so codes are single-use.
type User struct {
	ID                string    `bson:"_id" json:"-"`
	Name              string    `bson:"name" json:"name"`
	Email             string    `bson:"email" json:"email"`
	PasswordHash      string    `bson:"password" json:"-"`
	Verified          bool      `bson:"verified" json:"verified"`
	OTP               string    `bson:"otp,omitempty" json:"-"`
	OTPExpires        time.Time `bson:"otpExpires,omitempty" json:"-"`
	VerificationToken string    `bson:"verificationToken,omitempty" json:"-"`
	TokenExpires      time.Time `bson:"tokenExpires,omitempty" json:"-"`
	CreatedAt         time.Time `bson:"createdAt" json:"-"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"-"`
}

// SafeUser is the client-facing view of an account, stripped of credentials.
type SafeUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// Sanitize converts a stored user to its client-facing view.
func (u User) Sanitize() SafeUser {
	return SafeUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Verified: u.Verified,
	}
}
