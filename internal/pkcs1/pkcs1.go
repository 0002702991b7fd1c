// Package pkcs1 implements the specific slice of RSASSA-PKCS1-v1_5
// signature recovery (RFC 8017 section 9.2, EMSA-PKCS1-v1_5) that the
// manifest verifier needs to observe directly: the recovered encoded
// message block, so the caller can independently check its DigestInfo
// prefix and compare the trailing digest itself, rather than trusting an
// opaque verify/reject call.
//
// This mirrors a hardware-constrained RSA verify routine that decrypts a
// signature with the public key into a scratch buffer and then memcmp's a
// fixed offset of that buffer against a freshly computed SHA-256, instead
// of calling into a one-shot "verify" primitive.
package pkcs1

import (
	"errors"
	"math/big"
)

// sha256DigestInfoPrefix is the DER encoding of the DigestInfo ASN.1
// structure for SHA-256 (RFC 8017 appendix A.2.4, AlgorithmIdentifier for
// id-sha256 plus the OCTET STRING header for a 32-byte digest),19 bytes:
//
//	30 31 30 0d 06 09 60 86 48 01 65 03 04 02 01 05 00 04 20
var sha256DigestInfoPrefix = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
	0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// DigestSize is the length in bytes of a SHA-256 digest.
const DigestSize = 32

// ErrModulusTooSmall is returned when the modulus is too small to hold an
// EMSA-PKCS1-v1_5 encoded SHA-256 digest (11 bytes of minimum padding plus
// the 19-byte DigestInfo prefix plus the 32-byte digest).
var ErrModulusTooSmall = errors.New("pkcs1: modulus too small for a SHA-256 signature")

// ErrSignatureLength is returned when the signature is not exactly as long
// as the modulus, in bytes.
var ErrSignatureLength = errors.New("pkcs1: signature length does not match modulus length")

// ErrBlockMalformed is returned when the recovered block does not have the
// structure EMSA-PKCS1-v1_5 requires: a leading 0x00 0x01 byte pair
// followed by a run of 0xff padding bytes, a single 0x00 separator, and
// then the DigestInfo prefix for SHA-256. Recover also returns it when the
// signature, read as a big-endian integer, is not less than the modulus.
var ErrBlockMalformed = errors.New("pkcs1: recovered block is not a well-formed EMSA-PKCS1-v1_5 message")

// Recover performs the public-key RSA operation (signature^e mod n) and
// returns the recovered EMSA-PKCS1-v1_5 encoded message block, left-padded
// with zeros to exactly the modulus length in bytes. It does not itself
// compare the embedded digest to anything; callers extract and compare the
// trailing DigestSize bytes themselves, which lets manifest.Verify log or
// classify a mismatch without this package knowing about that policy.
func Recover(n *big.Int, e int, signature []byte) ([]byte, error) {
	k := (n.BitLen() + 7) / 8
	if k < 11+len(sha256DigestInfoPrefix)+DigestSize {
		return nil, ErrModulusTooSmall
	}
	if len(signature) != k {
		return nil, ErrSignatureLength
	}

	s := new(big.Int).SetBytes(signature)
	if s.Cmp(n) >= 0 {
		return nil, ErrBlockMalformed
	}

	m := new(big.Int).Exp(s, big.NewInt(int64(e)), n)
	block := m.Bytes()

	// m.Bytes() drops any leading zero bytes; restore them so block is
	// exactly k bytes, matching the decrypt-into-fixed-buffer shape this
	// is grounded on.
	if len(block) < k {
		padded := make([]byte, k)
		copy(padded[k-len(block):], block)
		block = padded
	}

	return block, nil
}

// CheckSHA256DigestInfo validates that block is a well-formed
// EMSA-PKCS1-v1_5 encoding of a SHA-256 digest (0x00 0x01 FF...FF 0x00 ||
// DigestInfo-prefix || digest) and returns the embedded 32-byte digest.
// It does not compare the digest to anything the caller computed; use
// crypto/subtle.ConstantTimeCompare on the returned slice for that so the
// comparison itself is constant-time.
func CheckSHA256DigestInfo(block []byte) ([]byte, error) {
	prefixLen := len(sha256DigestInfoPrefix)
	minLen := 2 + 8 + 1 + prefixLen + DigestSize // 0x00 0x01, >=8 FF bytes, 0x00 separator, prefix, digest
	if len(block) < minLen {
		return nil, ErrBlockMalformed
	}

	if block[0] != 0x00 || block[1] != 0x01 {
		return nil, ErrBlockMalformed
	}

	i := 2
	for i < len(block) && block[i] == 0xff {
		i++
	}
	if i-2 < 8 {
		return nil, ErrBlockMalformed
	}
	if i >= len(block) || block[i] != 0x00 {
		return nil, ErrBlockMalformed
	}
	i++

	digestInfoStart := len(block) - prefixLen - DigestSize
	if digestInfoStart != i {
		return nil, ErrBlockMalformed
	}

	prefix := block[digestInfoStart : digestInfoStart+prefixLen]
	for j := range sha256DigestInfoPrefix {
		if prefix[j] != sha256DigestInfoPrefix[j] {
			return nil, ErrBlockMalformed
		}
	}

	return block[len(block)-DigestSize:], nil
}
