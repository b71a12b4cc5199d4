package paytm

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Paytm checksum v2: sha256 over the "|"-joined sorted parameter values
// plus a 4 character salt, AES-128-CBC encrypted with the merchant key.

const (
	saltLength = 4

	// MerchantKeyLength is the AES-128 key size the gateway signs with.
	MerchantKeyLength = 16
)

var checksumIV = []byte("@@@@&&&&####$$$$")

// GenerateSignature signs params with the merchant key using a fresh salt.
func GenerateSignature(params map[string]string, key string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", fmt.Errorf("%w: salt: %v", ErrSignature, err)
	}
	return signWithSalt(params, key, salt)
}

// VerifySignature reports whether checksum was produced for params with key.
// A CHECKSUMHASH entry inside params is ignored.
func VerifySignature(params map[string]string, key, checksum string) bool {
	if checksum == "" {
		return false
	}
	plain, err := decrypt(checksum, key)
	if err != nil || len(plain) < saltLength {
		return false
	}
	salt := plain[len(plain)-saltLength:]
	expected := hashWithSalt(paramString(params), salt)
	return subtle.ConstantTimeCompare([]byte(plain), []byte(expected)) == 1
}

func signWithSalt(params map[string]string, key, salt string) (string, error) {
	out, err := encrypt(hashWithSalt(paramString(params), salt), key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return out, nil
}

func paramString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == FieldChecksum {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		v := params[k]
		if strings.EqualFold(v, "null") {
			v = ""
		}
		values[i] = v
	}
	return strings.Join(values, "|")
}

func hashWithSalt(s, salt string) string {
	sum := sha256.Sum256([]byte(s + "|" + salt))
	return hex.EncodeToString(sum[:]) + salt
}

func randomSalt() (string, error) {
	buf := make([]byte, saltLength*3/4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func encrypt(plain, key string) (string, error) {
	block, err := newCipher(key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plain), block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, checksumIV).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

func decrypt(encoded, key string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	block, err := newCipher(key)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 || len(raw)%block.BlockSize() != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(raw))
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, checksumIV).CryptBlocks(out, raw)
	plain, err := pkcs7Unpad(out, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func newCipher(key string) (cipher.Block, error) {
	if len(key) != MerchantKeyLength {
		return nil, fmt.Errorf("merchant key must be %d bytes, got %d", MerchantKeyLength, len(key))
	}
	return aes.NewCipher([]byte(key))
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
