package core

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// credentialDomainKey is the 32-byte key for BLAKE3 keyed hashing of
// credentials. Domain separation keeps credential fingerprints from
// colliding with any other hash use. The bytes are the ASCII encoding
// of the domain name, zero-padded to 32 bytes, so the key is readable
// in hex dumps without weakening the keyed mode.
var credentialDomainKey = [32]byte{
	'k', 'e', 'y', 'c', 'h', 'a', 't', '.',
	'c', 'r', 'e', 'd', 'e', 'n', 't', 'i', 'a', 'l',
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Fingerprint derives a one-way hex fingerprint of a raw credential.
// The fingerprint is what gets cached and logged; the raw credential
// must never appear in cache keys, log lines, or error messages.
func Fingerprint(credential string) string {
	hasher, err := blake3.NewKeyed(credentialDomainKey[:])
	if err != nil {
		panic("keychat: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(credential))
	return hex.EncodeToString(hasher.Sum(nil))
}

// FingerprintShort returns a truncated fingerprint suitable for log
// lines, where the full 64 hex characters add noise without value.
func FingerprintShort(credential string) string {
	return Fingerprint(credential)[:12]
}
