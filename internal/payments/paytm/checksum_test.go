package paytm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "abcdefgh12345678"

func TestSignatureRoundTrip(t *testing.T) {
	params := map[string]string{
		"MID":      "merchant01",
		"ORDER_ID": "AARAMB_42_1700000000000",
		"AMOUNT":   "499.00",
	}

	sig, err := GenerateSignature(params, testKey)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)
	assert.True(t, VerifySignature(params, testKey, sig))

	// A checksum entry inside the params does not take part in signing.
	params[FieldChecksum] = sig
	assert.True(t, VerifySignature(params, testKey, sig))
}

func TestSignatureUsesFreshSalt(t *testing.T) {
	params := map[string]string{"MID": "m", "ORDERID": "1"}

	first, err := GenerateSignature(params, testKey)
	require.NoError(t, err)
	second, err := GenerateSignature(params, testKey)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifySignature(params, testKey, first))
	assert.True(t, VerifySignature(params, testKey, second))
}

func TestVerifySignatureRejects(t *testing.T) {
	params := map[string]string{"MID": "m", "ORDERID": "1", "TXNAMOUNT": "10.00"}
	sig, err := GenerateSignature(params, testKey)
	require.NoError(t, err)

	tests := []struct {
		name     string
		params   map[string]string
		key      string
		checksum string
	}{
		{
			name:     "tampered value",
			params:   map[string]string{"MID": "m", "ORDERID": "1", "TXNAMOUNT": "1.00"},
			key:      testKey,
			checksum: sig,
		},
		{
			name:     "extra field",
			params:   map[string]string{"MID": "m", "ORDERID": "1", "TXNAMOUNT": "10.00", "STATUS": "TXN_SUCCESS"},
			key:      testKey,
			checksum: sig,
		},
		{
			name:     "wrong key",
			params:   params,
			key:      "0000000000000000",
			checksum: sig,
		},
		{
			name:     "empty checksum",
			params:   params,
			key:      testKey,
			checksum: "",
		},
		{
			name:     "not base64",
			params:   params,
			key:      testKey,
			checksum: "%%%not-base64%%%",
		},
		{
			name:     "truncated",
			params:   params,
			key:      testKey,
			checksum: sig[:8],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifySignature(tt.params, tt.key, tt.checksum))
		})
	}
}

func TestParamStringSortsAndBlanksNull(t *testing.T) {
	got := paramString(map[string]string{
		"b":           "2",
		"a":           "1",
		"c":           "null",
		FieldChecksum: "ignored",
	})
	assert.Equal(t, "1|2|", got)
}

func TestHashWithSaltAppendsSalt(t *testing.T) {
	h := hashWithSalt("1|2", "abcd")
	assert.Len(t, h, 64+saltLength)
	assert.True(t, strings.HasSuffix(h, "abcd"))
}

func TestGenerateSignatureInvalidKey(t *testing.T) {
	for _, key := range []string{"short", "abcdefgh12345678abcdefgh", "abcdefgh12345678abcdefgh12345678"} {
		_, err := GenerateSignature(map[string]string{"a": "1"}, key)
		assert.ErrorIs(t, err, ErrSignature, "key of %d bytes", len(key))
	}
}

func TestVerifySignatureRejectsLongerKey(t *testing.T) {
	params := map[string]string{"a": "1"}
	sig, err := GenerateSignature(params, testKey)
	require.NoError(t, err)
	assert.False(t, VerifySignature(params, testKey+testKey, sig))
}

func TestPKCS7(t *testing.T) {
	padded := pkcs7Pad([]byte("hello"), 16)
	assert.Len(t, padded, 16)

	out, err := pkcs7Unpad(padded, 16)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	_, err = pkcs7Unpad([]byte{1, 2, 3, 0}, 16)
	assert.Error(t, err)
}
