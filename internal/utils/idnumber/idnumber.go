// Package idnumber проверяет номера израильских удостоверений личности (מספר זהות).
package idnumber

import "strings"

// Length длина номера с контрольной цифрой
const Length = 9

// Normalize убирает пробелы и дефисы и дополняет номер ведущими нулями до 9 цифр.
// Возвращает false, если номер содержит не только цифры или длиннее 9 цифр.
func Normalize(number string) (string, bool) {
	number = strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(number))
	if number == "" || len(number) > Length {
		return "", false
	}

	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return "", false
		}
	}

	return strings.Repeat("0", Length-len(number)) + number, true
}

// Validate проверяет контрольную цифру номера.
// Контрольная сумма совпадает с алгоритмом Луна для 9 цифр.
func Validate(number string) bool {
	normalized, ok := Normalize(number)
	if !ok {
		return false
	}

	sum := 0
	isSecond := false

	// Проходим с конца строки
	for i := len(normalized) - 1; i >= 0; i-- {
		digit := int(normalized[i] - '0')

		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isSecond = !isSecond
	}

	return sum%10 == 0
}
