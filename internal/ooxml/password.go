package ooxml

import (
	"strconv"
	"strings"
)

// PasswordHash computes the legacy 16-bit SpreadsheetML password
// digest used by the sheetProtection and workbookProtection password
// attributes. It is a one-way hash; the plaintext is never stored in
// the package.
func PasswordHash(plaintext string) string {
	var hash int64
	var pos uint = 1
	for _, c := range plaintext {
		v := int64(c) << pos
		pos++
		rotated := v >> 15
		v &= 0x7fff
		hash ^= v | rotated
	}
	hash ^= int64(len(plaintext))
	hash ^= 0xce4b
	return strings.ToUpper(strconv.FormatInt(hash, 16))
}
