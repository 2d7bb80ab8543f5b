// Copyright (c) 2026 YamDB. All rights reserved.
// Author: d.polyakov.dev@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Confirmation Codes

/*
GenerateConfirmationCode creates a cryptographically secure random code.

The code is delivered out-of-band (email) and later exchanged for a JWT,
so it must be unguessable. hex encoding keeps it copy-paste friendly.

Parameters:
  - byteLength: number of random bytes (the hex string is twice as long).

Returns:
  - string: the hex-encoded code.
  - error: only if the system entropy source fails.
*/
func GenerateConfirmationCode(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

/*
HashCode hashes a confirmation code using bcrypt.

Codes are stored hashed so a compromised Redis instance does not leak
usable credentials.

Parameters:
  - code: the plaintext confirmation code.

Returns:
  - string: the bcrypt hash.
  - error: if hashing fails.
*/
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hash), nil
}

/*
CheckCode compares a plaintext confirmation code against its bcrypt hash.

Parameters:
  - code: the plaintext code supplied by the client.
  - hash: the stored bcrypt hash.

Returns:
  - bool: true if the code matches.
*/
func CheckCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
