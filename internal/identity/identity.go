// Package identity derives stable internal identifiers for Telegram users.
package identity

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// FromTelegramID maps a Telegram user id to the internal user UUID.
// The mapping is deterministic: the id occupies the low 64 bits of the
// UUID, with the version and variant bits forced so the value is a valid
// RFC 4122 identifier. The same Telegram account always resolves to the
// same record key, which is what ownership checks rely on.
func FromTelegramID(telegramID int64) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[8:], uint64(telegramID))
	u[6] = (u[6] & 0x0f) | 0x40
	u[8] = (u[8] & 0x3f) | 0x80
	return u
}
