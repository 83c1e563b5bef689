package nit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit_Casos(t *testing.T) {
	cases := map[string]byte{
		"800197268":   '4', // DIAN
		"900100200":   '0',
		"800.197.268": '4',
	}
	for base, want := range cases {
		got, err := CheckDigit(base)
		require.NoError(t, err, base)
		assert.Equal(t, want, got, base)
	}
}

func TestValidate_NIT(t *testing.T) {
	assert.NoError(t, Validate("800197268-4"))
	assert.NoError(t, Validate("800.197.268-4"))
	assert.NoError(t, Validate("900100200"), "sin DV solo se valida la base")

	assert.ErrorIs(t, Validate("800197268-5"), ErrWrongCheckDigit)
	assert.ErrorIs(t, Validate("800197268-45"), ErrWrongCheckDigit)
	assert.ErrorIs(t, Validate("80019A268"), ErrMalformed)
	assert.ErrorIs(t, Validate(""), ErrMalformed)
}
