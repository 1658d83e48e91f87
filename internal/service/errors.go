package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput возвращается для запросов с отсутствующими или некорректными полями
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
