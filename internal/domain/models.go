package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind различает реальные денежные поступления и служебные записи о скидке
type PaymentKind string

const (
	PaymentKindPayment  PaymentKind = "payment"
	PaymentKindDiscount PaymentKind = "discount"
)

// PaymentStatus представляет статус оплаты регистрации
type PaymentStatus string

const (
	PaymentStatusFull              PaymentStatus = "FULL"
	PaymentStatusPartial           PaymentStatus = "PARTIAL"
	PaymentStatusOver              PaymentStatus = "OVER"
	PaymentStatusFullDiscounted    PaymentStatus = "FULL_DISCOUNTED"
	PaymentStatusPartialDiscounted PaymentStatus = "PARTIAL_DISCOUNTED"
	PaymentStatusDiscountOnly      PaymentStatus = "DISCOUNT_ONLY"
)

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentStatusFull:              "מלא",
	PaymentStatusPartial:           "חלקי",
	PaymentStatusOver:              "יתר",
	PaymentStatusFullDiscounted:    "מלא/הנחה",
	PaymentStatusPartialDiscounted: "חלקי/הנחה",
	PaymentStatusDiscountOnly:      "הנחה",
}

// Label возвращает отображаемое название статуса
func (s PaymentStatus) Label() string {
	if label, ok := paymentStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StaffRole представляет роль сотрудника
type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"
	StaffRoleInstructor StaffRole = "instructor"
)

// StaffUser представляет сотрудника школы
type StaffUser struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	ReportAccess bool      `json:"report_access"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session описывает права текущего запроса, извлеченные из токена
type Session struct {
	UserID       int64
	Role         StaffRole
	ReportAccess bool
}

// Season представляет сезон (например, лето 2024)
type Season struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// Pool представляет бассейн, в котором проходит сезон
type Pool struct {
	ID        int64     `json:"id"`
	SeasonID  int64     `json:"season_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product представляет курс с расписанием, ценой и вместимостью
type Product struct {
	ID              int64            `json:"id"`
	SeasonID        int64            `json:"season_id"`
	PoolID          *int64           `json:"pool_id,omitempty"`
	Name            string           `json:"name"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         *time.Time       `json:"end_date,omitempty"` // Денормализовано, считается по расписанию
	DaysOfWeek      []string         `json:"days_of_week"`
	MeetingsCount   int              `json:"meetings_count"`
	Price           decimal.Decimal  `json:"price"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	MaxParticipants int              `json:"max_participants"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Participant представляет участника (ученика)
type Participant struct {
	ID         int64     `json:"id"`
	NationalID string    `json:"national_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// FullName возвращает имя и фамилию участника
func (p Participant) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// Registration представляет запись участника на курс
type Registration struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	ParticipantID    int64           `json:"participant_id"`
	RequiredAmount   decimal.Decimal `json:"required_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	DiscountApproved bool            `json:"discount_approved"`
	RegistrationDate time.Time       `json:"registration_date"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RegistrationUpdate содержит изменяемые поля регистрации; nil означает "не менять"
type RegistrationUpdate struct {
	RequiredAmount   *decimal.Decimal
	DiscountAmount   *decimal.Decimal
	DiscountApproved *bool
}

// IsEmpty сообщает, что обновление ничего не меняет
func (u RegistrationUpdate) IsEmpty() bool {
	return u.RequiredAmount == nil && u.DiscountAmount == nil && u.DiscountApproved == nil
}

// Payment представляет одно поступление по регистрации
type Payment struct {
	ID             int64           `json:"id"`
	RegistrationID int64           `json:"registration_id"`
	Amount         decimal.Decimal `json:"amount"`
	ReceiptNumber  string          `json:"receipt_number"`
	Kind           PaymentKind     `json:"kind"`
	PaymentDate    time.Time       `json:"payment_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// IsRealMoney сообщает, что запись является реальным денежным поступлением
func (p Payment) IsRealMoney() bool {
	return p.Kind != PaymentKindDiscount
}

// PaymentStatusDetails представляет вычисленное состояние оплаты регистрации
type PaymentStatusDetails struct {
	Paid     decimal.Decimal `json:"paid"`
	Expected decimal.Decimal `json:"expected"`
	Status   PaymentStatus   `json:"status"`
	Label    string          `json:"label"`
}

// Progress представляет номер текущей встречи из общего количества
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Summary представляет сводку по группе регистраций
type Summary struct {
	Count         int                   `json:"count"`
	TotalExpected decimal.Decimal       `json:"total_expected"`
	TotalPaid     decimal.Decimal       `json:"total_paid"`
	Difference    decimal.Decimal       `json:"difference"`
	Capacity      int                   `json:"capacity,omitempty"`
	FillRate      *float64              `json:"fill_rate,omitempty"` // Только для одного курса
	StatusCounts  map[PaymentStatus]int `json:"status_counts"`
}

// ExportRow представляет одну строку выгрузки
type ExportRow struct {
	RegistrationID  int64           `json:"registration_id"`
	ParticipantName string          `json:"participant_name"`
	NationalID      string          `json:"national_id"`
	Phone           string          `json:"phone"`
	SeasonName      string          `json:"season_name"`
	ProductName     string          `json:"product_name"`
	RequiredAmount  decimal.Decimal `json:"required_amount"`
	EffectiveAmount decimal.Decimal `json:"effective_amount"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	ReceiptNumbers  string          `json:"receipt_numbers"`
	Progress        string          `json:"progress"`
	Status          PaymentStatus   `json:"status"`
	StatusLabel     string          `json:"status_label"`
}

// Projection представляет результат выгрузки с учетом пропущенных строк
type Projection struct {
	Rows      []ExportRow            `json:"rows"`
	Skipped   int                    `json:"skipped"`
	Anomalies []*MissingLinkageError `json:"-"`
}
