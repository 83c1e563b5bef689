// Package nit valida el número de identificación tributaria colombiano (NIT) y su dígito de verificación.
package nit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrMalformed       = errors.New("nit: formato inválido")
	ErrWrongCheckDigit = errors.New("nit: dígito de verificación inválido")
)

// Pesos DIAN del módulo 11, aplicados de derecha a izquierda sobre la base.
var weights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// CheckDigit calcula el dígito de verificación de la base (sin DV). Acepta puntos como separadores.
func CheckDigit(base string) (byte, error) {
	digits, err := digitsOf(base)
	if err != nil {
		return 0, err
	}
	sum := 0
	for i := range digits {
		sum += int(digits[len(digits)-1-i]-'0') * weights[i]
	}
	r := sum % 11
	if r > 1 {
		r = 11 - r
	}
	return byte('0' + r), nil
}

// Validate acepta "900100200", "900.100.200-0" o "900100200-0".
// Sin guion no hay DV que verificar y solo se valida la base.
func Validate(idNumber string) error {
	base, dv, hasDV := strings.Cut(strings.TrimSpace(idNumber), "-")
	expected, err := CheckDigit(base)
	if err != nil {
		return err
	}
	if !hasDV {
		return nil
	}
	if len(dv) != 1 || dv[0] != expected {
		return fmt.Errorf("%w: esperado %c, recibido %q", ErrWrongCheckDigit, expected, dv)
	}
	return nil
}

func digitsOf(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '.':
		case unicode.IsDigit(r) && r < 128:
			out = append(out, byte(r))
		default:
			return nil, fmt.Errorf("%w: carácter %q", ErrMalformed, r)
		}
	}
	if len(out) == 0 || len(out) > len(weights) {
		return nil, fmt.Errorf("%w: se esperan entre 1 y %d dígitos", ErrMalformed, len(weights))
	}
	return out, nil
}
