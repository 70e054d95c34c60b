package pure

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

func Checksum(b []byte) uint64 {
	return xxhash.Sum64(b)
}

func ChecksumString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// MD5Hex is the lowercase hex MD5 digest of b.
func MD5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
