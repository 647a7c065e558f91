package domain

// Profile is a retailer or supplier account as seen by other accounts.
type Profile struct {
	ID           string   `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email,omitempty" db:"email"`
	Role         UserRole `json:"role" db:"role"`
	BusinessName string   `json:"business_name" db:"business_name"`
	PhoneNumber  *string  `json:"phone_number,omitempty" db:"phone_number"`
}
