// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type studentNumberProbe struct {
	Value string `validate:"student_number"`
}

type phoneNumberProbe struct {
	Value string `validate:"phone_number"`
}

type passwordProbe struct {
	Value string `validate:"strong_password"`
}

func TestValidateStudentNumber(t *testing.T) {
	valid := []string{"12345", "20210001", "12345678901"}
	invalid := []string{"1234", "123456789012", "2021000a", " 20210001", ""}

	for _, v := range valid {
		assert.NoError(t, ValidateStruct(&studentNumberProbe{Value: v}), "expected %q to validate", v)
	}
	for _, v := range invalid {
		assert.Error(t, ValidateStruct(&studentNumberProbe{Value: v}), "expected %q to fail", v)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"+905551112233", "05551112233", "+90 555 111 22 33"}
	invalid := []string{"555", "not-a-phone", "+9055511122334455"}

	for _, v := range valid {
		assert.NoError(t, ValidateStruct(&phoneNumberProbe{Value: v}), "expected %q to validate", v)
	}
	for _, v := range invalid {
		assert.Error(t, ValidateStruct(&phoneNumberProbe{Value: v}), "expected %q to fail", v)
	}
}

func TestValidateStrongPassword(t *testing.T) {
	valid := []string{"Password1", "Another9Good"}
	invalid := []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"}

	for _, v := range valid {
		assert.NoError(t, ValidateStruct(&passwordProbe{Value: v}), "expected %q to validate", v)
	}
	for _, v := range invalid {
		assert.Error(t, ValidateStruct(&passwordProbe{Value: v}), "expected %q to fail", v)
	}
}
