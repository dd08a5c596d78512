// Package marketplace holds the entity shapes exchanged with the REST backend.
// The backend owns all of them; the client only keeps transient copies.
package marketplace

import "time"

// Keyed is implemented by every entity that lives in a client-side collection.
type Keyed interface {
	Key() string
}

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

type AppointmentType string

const (
	TypeInPerson AppointmentType = "in-person"
	TypeVideo    AppointmentType = "video"
)

type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
}

func (u User) Key() string { return u.ID }

type Doctor struct {
	ID             string  `json:"_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Specialization string  `json:"specialization"`
	Experience     int     `json:"experience,omitempty"`
	Fees           float64 `json:"fees,omitempty"`
	Image          string  `json:"image,omitempty"`
	ClinicID       string  `json:"clinic,omitempty"`
}

func (d Doctor) Key() string { return d.ID }

// DayHours is an open/close pair in 24-hour "HH:MM" form.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours splits a clinic's week into weekdays and weekends.
// A nil entry means the clinic is closed for that part of the week.
type OperatingHours struct {
	Weekdays *DayHours `json:"weekdays,omitempty"`
	Weekends *DayHours `json:"weekends,omitempty"`
}

type Clinic struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Address        string         `json:"address,omitempty"`
	City           string         `json:"city,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	OperatingHours OperatingHours `json:"operatingHours"`
	SlotDuration   int            `json:"slotDuration,omitempty"` // minutes
}

func (c Clinic) Key() string { return c.ID }

type Appointment struct {
	ID        string            `json:"_id"`
	DoctorID  string            `json:"doctor"`
	ClinicID  string            `json:"clinic"`
	PatientID string            `json:"patient"`
	Date      string            `json:"date"` // YYYY-MM-DD
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime"`
	Reason    string            `json:"reason,omitempty"`
	Type      AppointmentType   `json:"appointmentType,omitempty"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

func (a Appointment) Key() string { return a.ID }

type AvailabilityRequest struct {
	DoctorID  string `json:"doctor"`
	ClinicID  string `json:"clinic"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type Availability struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

type BookAppointmentRequest struct {
	AvailabilityRequest
	Reason string          `json:"reason"`
	Type   AppointmentType `json:"appointmentType"`
}

type Blog struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	AuthorID  string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (b Blog) Key() string { return b.ID }

type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image,omitempty"`
}

func (p Product) Key() string { return p.ID }

type CartItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

func (c CartItem) Key() string { return c.ProductID }

type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type LabTest struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ClinicID    string  `json:"clinic,omitempty"`
}

func (l LabTest) Key() string { return l.ID }

type LabBooking struct {
	ID        string `json:"_id"`
	TestID    string `json:"test"`
	ClinicID  string `json:"clinic"`
	PatientID string `json:"patient"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	ReportURL string `json:"reportUrl,omitempty"`
}

func (l LabBooking) Key() string { return l.ID }

type Message struct {
	ID             string    `json:"_id"`
	ConversationID string    `json:"conversation"`
	SenderRole     Role      `json:"senderRole"`
	SenderID       string    `json:"sender"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sentAt"`
}

func (m Message) Key() string { return m.ID }

type Conversation struct {
	ID        string    `json:"_id"`
	DoctorID  string    `json:"doctor"`
	PatientID string    `json:"patient"`
	Messages  []Message `json:"messages,omitempty"`
}

func (c Conversation) Key() string { return c.ID }

type OrderItem struct {
	ProductID string  `json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID      string      `json:"_id"`
	UserID  string      `json:"user"`
	Items   []OrderItem `json:"items"`
	Total   float64     `json:"total"`
	Status  string      `json:"status"`
	Address string      `json:"address,omitempty"`
}

func (o Order) Key() string { return o.ID }

// Credentials is the login body shared by patients and doctors.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// DoctorRegistration is sent as multipart form data; Photo is optional.
type DoctorRegistration struct {
	Name           string
	Email          string
	Password       string
	Specialization string
	Experience     int
	Fees           float64
	ClinicID       string
	Photo          *Upload
}

// Upload is a file part in a multipart body.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

type UserSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type DoctorSession struct {
	Token  string `json:"token"`
	Doctor Doctor `json:"doctor"`
}

type BlogDraft struct {
	Title   string
	Content string
	Image   *Upload
}

type LabBookingRequest struct {
	TestID   string `json:"test"`
	ClinicID string `json:"clinic"`
	Date     string `json:"date"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation,omitempty"`
	RecipientID    string `json:"recipient"`
	Body           string `json:"body"`
}

type CreateOrderRequest struct {
	Items   []OrderItem `json:"items"`
	Address string      `json:"address"`
}
