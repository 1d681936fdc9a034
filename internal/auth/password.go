// internal/auth/password.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash indicates a stored password hash that cannot be parsed.
var ErrMalformedHash = errors.New("stored password hash is malformed")

// ErrHashVersion indicates a hash produced by an incompatible argon2 version.
var ErrHashVersion = errors.New("stored password hash uses an unsupported argon2 version")

// hashParams tune argon2id. Every hash encodes its own parameters, so
// these only govern newly created hashes.
type hashParams struct {
	memoryKiB uint32
	passes    uint32
	threads   uint8
	saltLen   uint32
	keyLen    uint32
}

// defaultHashParams follows the host's CPU count for parallelism but
// never drops below 1, which argon2 rejects with a panic.
func defaultHashParams() hashParams {
	threads := runtime.NumCPU() / 2
	if threads < 1 {
		threads = 1
	}
	return hashParams{
		memoryKiB: 64 * 1024,
		passes:    5,
		threads:   uint8(threads),
		saltLen:   16,
		keyLen:    32,
	}
}

// HashPassword derives an argon2id key from the password under a fresh
// salt and encodes it together with its parameters, so verification is
// self-contained.
func HashPassword(password string) (string, error) {
	p := defaultHashParams()
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.passes, p.memoryKiB, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memoryKiB, p.passes, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword reports whether the password matches the encoded hash,
// re-deriving the key under the parameters the hash was created with.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, p.passes, p.memoryKiB, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decodeHash(encoded string) (hashParams, []byte, []byte, error) {
	var p hashParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if version != argon2.Version {
		return p, nil, nil, ErrHashVersion
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memoryKiB, &p.passes, &p.threads); err != nil {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}
