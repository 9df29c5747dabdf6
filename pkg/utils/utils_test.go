package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCryptAndVerify(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	hashed, err := Crypt("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hashed)
	require.True(t, VerifyPassword("secret123", hashed))
	require.False(t, VerifyPassword("secret124", hashed))
}

func TestTransfer(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{float64(7), 7, true},
		{int64(3), 3, true},
		{"42", 42, true},
		{"x", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := Transfer(c.in)
		require.Equal(t, c.ok, ok, "%v", c.in)
		require.Equal(t, c.want, got)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("15")
	require.True(t, ok)
	require.Equal(t, int64(15), id)

	_, ok = ParseID("0")
	require.False(t, ok)
	_, ok = ParseID("abc")
	require.False(t, ok)

	p, ok := ParseOptionalID("")
	require.True(t, ok)
	require.Nil(t, p)
	_, ok = ParseOptionalID("-1")
	require.False(t, ok)
}
