// Package manifest implements the two-level JWS verification protocol an
// OTA-updated device uses to decide whether an update manifest was signed
// by a key that chains to a device-trusted root: the verification
// orchestrator named in the design this package follows.
package manifest

// Reason names why a manifest was rejected. The zero value is never a
// valid rejection reason; it only ever appears paired with Accept == true.
type Reason string

const (
	// JwsStructure: wrong dot count, an empty segment, or any other
	// violation of the three-segment compact JWS shape.
	JwsStructure Reason = "jws_structure"

	// Base64: a segment contains a byte outside the base64url/standard
	// alphabet, an internal "=" character, or an impossible padding
	// remainder.
	Base64 Reason = "base64"

	// JsonMissing: a required JSON field is absent.
	JsonMissing Reason = "json_missing"

	// JsonType: a required JSON field is present but not a string.
	JsonType Reason = "json_type"

	// UnknownRoot: the inner header's kid does not match any compiled-in
	// root key.
	UnknownRoot Reason = "unknown_root"

	// UnsupportedAlg: alg is present but is not "RS256".
	UnsupportedAlg Reason = "unsupported_alg"

	// RsaMath: a modulus/signature length mismatch or other condition
	// that makes the RSA public operation impossible to carry out.
	RsaMath Reason = "rsa_math"

	// InnerSignature: the recovered digest from the inner (signing-key)
	// JWS does not match the independently computed digest.
	InnerSignature Reason = "inner_signature"

	// OuterSignature: same, for the outer (manifest) JWS.
	OuterSignature Reason = "outer_signature"

	// ManifestDigest: the outer payload's sha256 commitment does not
	// match the SHA-256 of the supplied manifest bytes.
	ManifestDigest Reason = "manifest_digest"

	// ScratchOverflow: the caller-provided scratch buffer is too small
	// for an intermediate value.
	ScratchOverflow Reason = "scratch_overflow"
)

// Verdict is the sole output of Verify. It is deliberately not a Go error:
// a rejection is an expected, common outcome of verifying untrusted input,
// not a failure of the verification call itself. Accept implies both the
// inner and outer signature checks, and the manifest-digest binding,
// succeeded; Reason is meaningless when Accept is true.
type Verdict struct {
	Accept bool
	Reason Reason
}

func accept() Verdict {
	return Verdict{Accept: true}
}

func reject(reason Reason) Verdict {
	return Verdict{Accept: false, Reason: reason}
}
