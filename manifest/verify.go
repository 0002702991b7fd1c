package manifest

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"math/big"

	"github.com/halimath/otajws/internal/encoding"
	"github.com/halimath/otajws/internal/pkcs1"
	"github.com/halimath/otajws/jwk"
	"github.com/halimath/otajws/jws"
)

// Verify drives the two-level OTA manifest verification protocol:
//
//  1. split and decode the outer token
//  2. extract the embedded signing-key JWS ("sjwk") from the outer header
//  3. split and decode that inner JWS
//  4. bind the inner header's "kid" to a compiled-in trust anchor
//  5. verify the inner signature against that root key
//  6. extract the signing key carried in the inner payload
//  7. verify the outer signature against the signing key
//  8. bind the outer signature to the caller-supplied manifest bytes via
//     the outer payload's digest commitment
//
// Every structural violation (wrong dot count, empty segment) is reported
// as JwsStructure, every alphabet/padding violation as Base64, and every
// missing-or-wrong-typed JSON field as JsonMissing/JsonType respectively —
// Verify never folds these into one another; see extractString.
//
// manifestPayload is supplied separately from outerJWS because the outer
// payload segment carries only a {"sha256": "..."} commitment, never the
// manifest itself; callers must pass the exact bytes the signer hashed —
// Verify performs no canonicalization of its own.
//
// scratch holds the decoded outer and inner payloads and the recovered RSA
// blocks, and is zeroed before Verify returns, on every path, because it
// transiently holds fragments of decrypted RSA blocks. The other decoded
// values (headers, signatures, the signing-key modulus and exponent) are
// ordinary allocations outside scratch and are not zeroed. roots is
// consulted only by "kid";
// there is no notion of a single fixed trust anchor here, in favor of
// letting the caller rotate root keys.
//
// Verify performs no I/O and does not retain scratch, outerJWS, or roots
// beyond the call.
func Verify(scratch *Scratch, outerJWS, manifestPayload []byte, roots jwk.Set) Verdict {
	defer scratch.wipe()

	// Step 1: split and decode the outer token.
	outerHeaderEnc, outerPayloadEnc, outerSigEnc, err := jws.Split(string(outerJWS))
	if err != nil {
		return reject(JwsStructure)
	}

	outerHeader, err := encoding.Decode(outerHeaderEnc)
	if err != nil {
		return reject(Base64)
	}
	outerPayload, err := encoding.Decode(outerPayloadEnc)
	if err != nil {
		return reject(Base64)
	}
	sigOut, err := encoding.Decode(outerSigEnc)
	if err != nil {
		return reject(Base64)
	}
	if !put(&scratch.outerPayload, outerPayload) {
		return reject(ScratchOverflow)
	}

	outerAlg, reason, ok := extractString(outerHeader, "alg")
	if !ok {
		return reject(reason)
	}
	if outerAlg != string(jws.ALG_RS256) {
		return reject(UnsupportedAlg)
	}

	// Step 2: extract the embedded signing-key JWS.
	sjwk, reason, ok := extractString(outerHeader, "sjwk")
	if !ok {
		return reject(reason)
	}

	// Step 3: split and decode the inner JWS.
	innerHeaderEnc, innerPayloadEnc, innerSigEnc, err := jws.Split(sjwk)
	if err != nil {
		return reject(JwsStructure)
	}

	innerHeader, err := encoding.Decode(innerHeaderEnc)
	if err != nil {
		return reject(Base64)
	}
	innerPayload, err := encoding.Decode(innerPayloadEnc)
	if err != nil {
		return reject(Base64)
	}
	sigIn, err := encoding.Decode(innerSigEnc)
	if err != nil {
		return reject(Base64)
	}
	if !put(&scratch.innerPayload, innerPayload) {
		return reject(ScratchOverflow)
	}

	innerAlg, reason, ok := extractString(innerHeader, "alg")
	if !ok {
		return reject(reason)
	}
	if innerAlg != string(jws.ALG_RS256) {
		return reject(UnsupportedAlg)
	}

	// Step 4: bind to the device root. Mandatory before any inner RSA work.
	kid, reason, ok := extractString(innerHeader, "kid")
	if !ok {
		return reject(reason)
	}

	var rootRSA *jwk.RSAPublicKey
	for _, k := range roots {
		if subtle.ConstantTimeCompare([]byte(k.ID()), []byte(kid)) == 1 {
			if rsaKey, ok := k.(*jwk.RSAPublicKey); ok {
				rootRSA = rsaKey
			}
			break
		}
	}
	if rootRSA == nil {
		return reject(UnknownRoot)
	}

	// Step 5: verify the inner signature against the device root.
	innerSignedInput := []byte(innerHeaderEnc + "." + innerPayloadEnc)
	if err := verifyRS256(innerSignedInput, sigIn, rootRSA.PublicKey.N, rootRSA.PublicKey.E, &scratch.rsaBlock); err != nil {
		switch err {
		case errRsaMath:
			return reject(RsaMath)
		case errScratchOverflow:
			return reject(ScratchOverflow)
		default:
			return reject(InnerSignature)
		}
	}

	// Step 6: extract the signing key from the inner payload.
	signingAlg, reason, ok := extractString(scratch.innerPayload, "alg")
	if !ok {
		return reject(reason)
	}
	if signingAlg != string(jws.ALG_RS256) {
		return reject(UnsupportedAlg)
	}

	signingN, reason, ok := extractString(scratch.innerPayload, "n")
	if !ok {
		return reject(reason)
	}
	signingE, reason, ok := extractString(scratch.innerPayload, "e")
	if !ok {
		return reject(reason)
	}

	nBytes, err := encoding.Decode(signingN)
	if err != nil {
		return reject(Base64)
	}
	eBytes, err := encoding.Decode(signingE)
	if err != nil {
		return reject(Base64)
	}
	if len(nBytes) != rsaBlockCap { // 384 bytes = RS256 / 3072-bit modulus
		return reject(RsaMath)
	}

	signingModulus := new(big.Int).SetBytes(nBytes)
	signingExponent := int(new(big.Int).SetBytes(eBytes).Int64())

	// Step 7: verify the outer signature against the signing key.
	outerSignedInput := []byte(outerHeaderEnc + "." + outerPayloadEnc)
	if err := verifyRS256(outerSignedInput, sigOut, signingModulus, signingExponent, &scratch.rsaBlock); err != nil {
		switch err {
		case errRsaMath:
			return reject(RsaMath)
		case errScratchOverflow:
			return reject(ScratchOverflow)
		default:
			return reject(OuterSignature)
		}
	}

	// Step 8: bind the outer signature to the actual manifest payload.
	commitment, reason, ok := extractString(scratch.outerPayload, "sha256")
	if !ok {
		return reject(reason)
	}

	committed, err := encoding.Decode(commitment)
	if err != nil {
		return reject(Base64)
	}
	if len(committed) != sha256.Size {
		return reject(ManifestDigest)
	}

	computed := sha256.Sum256(manifestPayload)
	if subtle.ConstantTimeCompare(committed, computed[:]) != 1 {
		return reject(ManifestDigest)
	}

	return accept()
}

// extractString extracts a required top-level string field from decoded
// JSON via jws.ExtractStringField (the S.extract_string_field component),
// translating its two distinct failure modes into the matching taxonomy
// members from spec.md §7: a field that is absent, or JSON that does not
// even parse as an object, is JsonMissing; a field present with a
// non-string value is JsonType. ok is false whenever reason should be
// returned to the caller as a Reject.
func extractString(data []byte, field string) (value string, reason Reason, ok bool) {
	value, err := jws.ExtractStringField(data, field)
	if err != nil {
		if errors.Is(err, jws.ErrFieldType) {
			return "", JsonType, false
		}
		return "", JsonMissing, false
	}
	return value, "", true
}

type errorString string

func (e errorString) Error() string { return string(e) }

const (
	errRsaMath         = errorString("rsa math failed")
	errDigestMismatch  = errorString("recovered digest does not match computed digest")
	errScratchOverflow = errorString("recovered block does not fit the scratch buffer")
)

// verifyRS256 recovers the EMSA-PKCS1-v1_5 block for signature under
// (n, e), checks its DigestInfo prefix, and compares its trailing digest
// against the SHA-256 of signedInput in constant time. block is reused
// scratch storage for the recovered bytes.
func verifyRS256(signedInput, signature []byte, n *big.Int, e int, block *[]byte) error {
	recovered, err := pkcs1.Recover(n, e, signature)
	if err != nil {
		return errRsaMath
	}
	if !put(block, recovered) {
		return errScratchOverflow
	}

	digest, err := pkcs1.CheckSHA256DigestInfo(*block)
	if err != nil {
		return err
	}

	computed := sha256.Sum256(signedInput)
	if subtle.ConstantTimeCompare(digest, computed[:]) != 1 {
		return errDigestMismatch
	}

	return nil
}
