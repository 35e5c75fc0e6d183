package identity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"raw digits", "12345678909", "12345678909", false},
		{"formatted", "123.456.789-09", "12345678909", false},
		{"spaces and letters", " cpf: 123 456 789 09 ", "12345678909", false},
		{"too short", "1234567890", "", true},
		{"too long", "123456789012", "", true},
		{"empty", "", "", true},
		{"no digits", "abc.def", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLength)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Validate проходит тогда и только тогда, когда в строке ровно 11 цифр.
func TestValidate_IffElevenDigits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("0123456789.-/ abcXYZ")

	for i := 0; i < 2000; i++ {
		n := rng.Intn(25)
		runes := make([]rune, n)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		s := string(runes)

		_, err := Validate(s)
		assert.Equal(t, len(Digits(s)) == Length, err == nil, "input %q", s)
	}
}

func TestFormat(t *testing.T) {
	got, err := Format("12345678909")
	require.NoError(t, err)
	assert.Equal(t, "123.456.789-09", got)

	// Повторное форматирование отформатированной строки даёт тот же результат
	again, err := Format(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = Format("123")
	assert.ErrorIs(t, err, ErrInvalidLength)
}

// Format → Digits возвращает исходные 11 цифр.
func TestFormat_RoundTripDigits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		b := make([]byte, Length)
		for j := range b {
			b[j] = byte('0' + rng.Intn(10))
		}
		formatted, err := Format(string(b))
		require.NoError(t, err)
		assert.Equal(t, string(b), Digits(formatted))
	}
}

func TestHasValidCheckDigits(t *testing.T) {
	assert.True(t, HasValidCheckDigits("529.982.247-25"))
	assert.True(t, HasValidCheckDigits("12345678909"))
	assert.False(t, HasValidCheckDigits("529.982.247-26"))
	assert.False(t, HasValidCheckDigits("111.111.111-11"))
	assert.False(t, HasValidCheckDigits("123"))
}
