package domain

import (
	"errors"
	"fmt"
)

// Ошибки сотрудников
var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied")
)

// Ошибки каталога
var (
	ErrSeasonNotFound  = errors.New("season not found")
	ErrProductNotFound = errors.New("product not found")
	ErrProductFull     = errors.New("product has no free places")
)

// Ошибки участников и регистраций
var (
	ErrParticipantExists     = errors.New("participant already exists")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrInvalidNationalID     = errors.New("invalid national id")
	ErrRegistrationExists    = errors.New("participant already registered to product")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrEmptyRegistrationEdit = errors.New("registration update has no fields")
)

// ScheduleError возвращается при некорректных данных расписания
type ScheduleError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ScheduleError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("schedule: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("schedule: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewScheduleError создает новую ошибку расписания
func NewScheduleError(field, value, reason string) *ScheduleError {
	return &ScheduleError{Field: field, Value: value, Reason: reason}
}

// LinkKind указывает, какую связанную сущность не удалось найти
type LinkKind string

const (
	LinkParticipant LinkKind = "participant"
	LinkProduct     LinkKind = "product"
	LinkSeason      LinkKind = "season"
)

// MissingLinkageError возвращается, когда регистрация ссылается на отсутствующую сущность
type MissingLinkageError struct {
	RegistrationID int64
	Kind           LinkKind
	ID             int64
}

func (e *MissingLinkageError) Error() string {
	return fmt.Sprintf("registration %d: %s %d not found", e.RegistrationID, e.Kind, e.ID)
}

// InvalidAmountError возвращается для недопустимых сумм во входных данных (отрицательных, а для платежей и нулевых)
type InvalidAmountError struct {
	Field string
	Value string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s=%s", e.Field, e.Value)
}
