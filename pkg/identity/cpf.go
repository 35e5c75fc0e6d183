// Package identity работает с CPF — 11-значным идентификатором продавца.
//
// CPF здесь непрозрачный идентификатор: чат проверяет только длину,
// контрольные цифры проверяются отдельной функцией и в диалоге не используются.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Length — количество цифр в CPF.
const Length = 11

// ErrInvalidLength возвращается когда после удаления нецифровых символов
// осталось не 11 цифр.
var ErrInvalidLength = errors.New("cpf must have 11 digits")

// Digits удаляет из строки всё, кроме ASCII цифр.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate проверяет ввод пользователя и возвращает 11 цифр.
//
// Допускается любой мусор вокруг цифр ("123.456.789-09", " 12345678909 ").
func Validate(s string) (string, error) {
	d := Digits(s)
	if len(d) != Length {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, len(d))
	}
	return d, nil
}

// Format приводит CPF к виду XXX.XXX.XXX-XX.
//
// Принимает как чистые цифры, так и уже отформатированную строку.
func Format(s string) (string, error) {
	d, err := Validate(s)
	if err != nil {
		return "", err
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11], nil
}

// HasValidCheckDigits проверяет контрольные цифры CPF (алгоритм Receita Federal).
//
// CPF из одинаковых цифр ("111.111.111-11") считается недействительным.
func HasValidCheckDigits(s string) bool {
	d, err := Validate(s)
	if err != nil {
		return false
	}
	if strings.Count(d, d[:1]) == Length {
		return false
	}
	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

func checkDigit(prefix string, weight int) byte {
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return byte('0' + rest)
}
