package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const backupCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomHex returns the hex encoding of n random bytes.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// RandomSHA256 returns a random 64-character hex token.
func RandomSHA256() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	hashed := sha256.Sum256(b)
	return hex.EncodeToString(hashed[:]), nil
}

// RandomCode returns a code of n characters without ambiguous symbols like 0,
// O, 1 and I.
func RandomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = backupCodeAlphabet[RandIntn(len(backupCodeAlphabet))]
	}
	return string(b)
}

// SignSHA256 returns the hex encoded HMAC-SHA256 of data.
func SignSHA256(data, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySHA256 compares signature with the HMAC-SHA256 of data in constant
// time.
func VerifySHA256(data, secret []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	h := hmac.New(sha256.New, secret)
	h.Write(data)
	return hmac.Equal(h.Sum(nil), expected)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}
