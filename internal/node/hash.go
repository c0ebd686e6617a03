package node

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashField is the key holding a record's lock hash.
const HashField = "lock_hash"

// LockHash returns the hex SHA-256 of r's canonical encoding with HashField
// removed. A stored hash never contributes to its own digest.
func LockHash(r *Record) (string, error) {
	data, err := Marshal(r.Without(HashField), Canonical)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Seal computes r's lock hash and stores it as the last key.
func Seal(r *Record) error {
	r.Delete(HashField)
	h, err := LockHash(r)
	if err != nil {
		return err
	}
	r.Set(HashField, h)
	return nil
}
