package models

import (
	"database/sql/driver"
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model for system operators (admins, trainers, staff).
// Deactivation is always soft: is_active goes false, the row stays.
type User struct {
	BaseModel
	Username       string `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email          string `json:"email" gorm:"size:100;not null;uniqueIndex"`
	HashedPassword string `json:"-" gorm:"size:255;not null"`
	FullName       string `json:"full_name" gorm:"size:100;not null"`
	Role           string `json:"role" gorm:"size:20;not null;default:'admin';type:enum('admin','trainer','staff')"` // admin, trainer, staff
	IsActive       bool   `json:"is_active" gorm:"default:true"`
	IsAdmin        bool   `json:"is_admin" gorm:"default:false"`
	Phone          string `json:"phone" gorm:"size:20"`
}

// MembershipPlan model. Referenced by members, so delete is soft (is_active=false).
type MembershipPlan struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:100;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	DaysPerWeek int     `json:"days_per_week" gorm:"not null"` // 1..7
	IsActive    bool    `json:"is_active" gorm:"default:true"`
	Features    string  `json:"features" gorm:"type:text"` // JSON string
}

// Member model for gym patrons.
type Member struct {
	BaseModel
	MembershipNumber      string     `json:"membership_number" gorm:"size:20;not null;uniqueIndex"` // GYM<year><seq>
	FirstName             string     `json:"first_name" gorm:"size:50;not null"`
	LastName              string     `json:"last_name" gorm:"size:50;not null"`
	DNI                   string     `json:"dni" gorm:"size:20;not null;uniqueIndex"`
	Email                 string     `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Phone                 string     `json:"phone" gorm:"size:20"`
	Address               string     `json:"address" gorm:"type:text"`
	BirthDate             *time.Time `json:"birth_date" gorm:"type:date"`
	EmergencyContactName  string     `json:"emergency_contact_name" gorm:"size:100"`
	EmergencyContactPhone string     `json:"emergency_contact_phone" gorm:"size:20"`
	MembershipPlanID      uint       `json:"membership_plan_id" gorm:"not null"`
	MembershipStartDate   time.Time  `json:"membership_start_date" gorm:"type:date;not null"`
	MembershipEndDate     time.Time  `json:"membership_end_date" gorm:"type:date;not null"`
	IsActive              bool       `json:"is_active" gorm:"default:true"`
	TrainerID             *uint      `json:"trainer_id"`
	Notes                 string     `json:"notes" gorm:"type:text"`

	// Relationships
	MembershipPlan MembershipPlan `json:"membership_plan,omitempty" gorm:"foreignKey:MembershipPlanID"`
	Trainer        *User          `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Payments       []Payment      `json:"payments,omitempty" gorm:"foreignKey:MemberID"`
}

// Payment model. Toggles between unverified and verified; a verified payment
// cannot be deleted until unverified first.
type Payment struct {
	BaseModel
	MemberID       uint       `json:"member_id" gorm:"not null;index"`
	Amount         float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentDate    time.Time  `json:"payment_date" gorm:"not null;index"`
	PaymentMethod  string     `json:"payment_method" gorm:"size:20;not null"`  // cash, card, transfer, check
	PaymentConcept string     `json:"payment_concept" gorm:"size:50;not null"` // membership, registration, personal_training
	Description    string     `json:"description" gorm:"type:text"`
	InvoiceNumber  string     `json:"invoice_number" gorm:"size:50"`
	IsVerified     bool       `json:"is_verified" gorm:"default:false"`
	VerifiedByID   *uint      `json:"verified_by"`
	VerifiedAt     *time.Time `json:"verified_at"`

	// Relationships
	Member   Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Verifier *User  `json:"verifier,omitempty" gorm:"foreignKey:VerifiedByID"`
}

// Attendance model for a single visit session. A record with a nil checkout is
// open; at most one open record per member per calendar day.
type Attendance struct {
	BaseModel
	MemberID        uint       `json:"member_id" gorm:"not null;index"`
	CheckInTime     time.Time  `json:"check_in_time" gorm:"not null;index"`
	CheckOutTime    *time.Time `json:"check_out_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           string     `json:"notes" gorm:"type:text"`

	// Relationships
	Member Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// Schedule model for facility open hours. Times are fixed-width "HH:MM".
type Schedule struct {
	BaseModel
	DayOfWeek   int    `json:"day_of_week" gorm:"not null;index"` // 0=Monday .. 6=Sunday
	Name        string `json:"name" gorm:"size:100;not null"`
	OpeningTime string `json:"opening_time" gorm:"size:5;not null"`
	ClosingTime string `json:"closing_time" gorm:"size:5;not null"`
	IsOpen      bool   `json:"is_open" gorm:"default:true"`
	Notes       string `json:"notes" gorm:"type:text"`
}

// GymSettings is the singleton facility profile, created lazily on first read.
type GymSettings struct {
	BaseModel
	GymName     string `json:"gym_name" gorm:"size:100;not null;default:'My Gym'"`
	Address     string `json:"address" gorm:"type:text"`
	Phone       string `json:"phone" gorm:"size:20"`
	Email       string `json:"email" gorm:"size:100"`
	Website     string `json:"website" gorm:"size:200"`
	Instagram   string `json:"instagram" gorm:"size:100"`
	Facebook    string `json:"facebook" gorm:"size:100"`
	Whatsapp    string `json:"whatsapp" gorm:"size:20"`
	Description string `json:"description" gorm:"type:text"`
	LogoURL     string `json:"logo_url" gorm:"size:500"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
