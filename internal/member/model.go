package member

import "time"

type Member struct {
	ID           int       `db:"id" json:"id"`
	ClubID       int       `db:"club_id" json:"club_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Locale       string    `db:"locale" json:"locale"`
	JoinedAt     time.Time `db:"joined_at" json:"joined_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TenureDays is the basis for loyalty-gated retention offers.
func (m *Member) TenureDays(today time.Time) int {
	days := int(today.Sub(m.JoinedAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

type RegisterRequest struct {
	ClubID   int    `json:"club_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Locale   string `json:"locale" binding:"omitempty,oneof=en ar"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Member       Member `json:"member"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
