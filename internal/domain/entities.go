package domain

import "time"

// Role separates donors from medical-center staff accounts.
type Role string

const (
	RoleDonor Role = "donor"
	RoleStaff Role = "staff"
)

// User is a Telegram account known to the bot, either a donor or a
// staff member bound to a medical center.
type User struct {
	ID         int64  `db:"id"`
	TelegramID int64  `db:"telegram_id"`
	Username   string `db:"username"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	Role       Role   `db:"role"`
	CenterID   *int64 `db:"center_id"`

	BloodType        *BloodType `db:"blood_type"`
	City             *string    `db:"city"`
	Latitude         *float64   `db:"latitude"`
	Longitude        *float64   `db:"longitude"`
	LastDonationDate *time.Time `db:"last_donation_date"`

	CertificateFileID     *string    `db:"certificate_file_id"`
	CertificateUploadedAt *time.Time `db:"certificate_uploaded_at"`

	Registered bool      `db:"is_registered"`
	CreatedAt  time.Time `db:"created_at"`
}

// MedicalCenter is a blood collection point with a staff login.
type MedicalCenter struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	City         string    `db:"city"`
	Address      string    `db:"address"`
	Latitude     *float64  `db:"latitude"`
	Longitude    *float64  `db:"longitude"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// BloodNeed is one cell of a center's traffic-light board.
type BloodNeed struct {
	ID        int64      `db:"id"`
	CenterID  int64      `db:"center_id"`
	BloodType BloodType  `db:"blood_type"`
	Status    NeedStatus `db:"status"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// DonationApplication is a donor's intent to donate at a center.
type DonationApplication struct {
	ID        int64             `db:"id"`
	Ref       string            `db:"ref"`
	DonorID   int64             `db:"donor_id"`
	CenterID  int64             `db:"center_id"`
	BloodType BloodType         `db:"blood_type"`
	Status    ApplicationStatus `db:"status"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// DonationRequest is a staff-authored dated call for donors.
type DonationRequest struct {
	ID          int64     `db:"id"`
	CenterID    int64     `db:"center_id"`
	AuthorID    int64     `db:"author_id"`
	BloodType   BloodType `db:"blood_type"`
	RequestDate time.Time `db:"request_date"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
