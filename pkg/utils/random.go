package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID создает короткий случайный ID вида "battle-1f0c9a2e44d1b7c3".
// Пустой prefix - только hex.
func NewID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	if prefix == "" {
		return hex.EncodeToString(b)
	}
	return prefix + "-" + hex.EncodeToString(b)
}
