// Package jws implements the compact serialization of JSON Web Signatures
// as defined in RFC 7515 (https://datatracker.ietf.org/doc/html/rfc7515),
// together with the RSASSA-PKCS1-v1_5 algorithm from JSON Web Algorithms
// (https://www.rfc-editor.org/rfc/rfc7518.html#section-3.3). Only the
// header parameters and algorithms this module's OTA manifest protocol
// needs are implemented; see jwk and the manifest package for the rest of
// the protocol.
package jws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/halimath/otajws/internal/encoding"
)

var (
	// ErrInvalidCompactJWS is returned when a given string is not a valid JWS in compact serialized form.
	ErrInvalidCompactJWS = errors.New("invalid compact JWS")

	// ErrInvalidHeader is returned when a header segment does not decode to valid JSON.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrInvalidSignature is returned from VerifySignature when the signature is not considered valid.
	ErrInvalidSignature = errors.New("invalid signature")
)

// --

// Header defines the structure representing a JWS JOSE header as defined in
// RFC7515 section 4 (https://datatracker.ietf.org/doc/html/rfc7515#section-4).
// This implementation has no support for private header parameters beyond
// the two this protocol actually uses.
type Header struct {
	Algorithm SignatureAlgorithm `json:"alg"`
	Type      string             `json:"typ,omitempty"`

	// KeyID is the "kid" (Key ID) Header Parameter (RFC7515 section 4.1.4):
	// a hint indicating which key was used to secure the JWS. In this
	// protocol it names the compiled-in trust-anchor root key the inner
	// signing-key JWS was signed by.
	KeyID string `json:"kid,omitempty"`

	// SigningJWK carries, as a string, a complete nested compact JWS whose
	// payload is the JWK of the key that signed this JWS's payload. It is
	// not a standard RFC 7515 parameter; it is this protocol's mechanism
	// for binding a per-update signing key to a device-trusted root
	// without a general X.509 chain.
	SigningJWK string `json:"sjwk,omitempty"`
}

// Encode serializes h to its base64url-encoded JSON form.
func (h *Header) Encode() string {
	b, err := json.Marshal(*h)
	if err != nil {
		panic(err)
	}

	return encoding.Encode(b)
}

// DecodeHeader decodes a base64url-encoded header segment into a Header.
func DecodeHeader(encoded string) (*Header, error) {
	b, err := encoding.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}

	var h Header
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHeader, err)
	}

	return &h, nil
}

// --

// JWS implements a JSON Web Signature datastructure. The fields
// of this struct represent the different components of a JWS in
// multiple ways. Once created a JWS is immutable. A JWS may only
// be created through functions exposed from this package, i.e.
//
//	func Sign(signer Signer, payload []byte, header Header) (*JWS, error)
//	func ParseCompact(compact string) (*JWS, error)
type JWS struct {
	header           Header
	headerEncoded    string
	payload          []byte
	payloadEncoded   string
	signature        []byte
	signatureEncoded string
}

// Header returns a copy of j's header.
func (j *JWS) Header() Header {
	return j.header
}

// Payload returns a deep copy of j's payload.
func (j *JWS) Payload() []byte {
	b := make([]byte, len(j.payload))
	copy(b, j.payload)
	return b
}

// Signature returns a deep copy of j's raw (decoded) signature.
func (j *JWS) Signature() []byte {
	b := make([]byte, len(j.signature))
	copy(b, j.signature)
	return b
}

// SignedInput returns the exact ASCII bytes the signature in j covers:
// the still-encoded header segment, a literal ".", and the still-encoded
// payload segment.
func (j *JWS) SignedInput() []byte {
	return []byte(j.headerEncoded + "." + j.payloadEncoded)
}

// Compact returns the JWS in compact serialization as specified in
// RFC 7515 section 7.1
// (https://datatracker.ietf.org/doc/html/rfc7515#section-7.1)
func (j *JWS) Compact() string {
	return j.headerEncoded + "." + j.payloadEncoded + "." + j.signatureEncoded
}

// VerifySignature verifies that j's signature was produced over
// SignedInput() by the key verifier was constructed with.
func (j *JWS) VerifySignature(verifier Verifier) error {
	if err := verifier.Verify(j.header.Algorithm, j.SignedInput(), j.signature); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return nil
}

// Sign signs the given payload and header with the given signature method.
// It returns a JWS value containing the raw and encoded parts as well as
// the signature.
func Sign(signer Signer, payload []byte, header Header) (*JWS, error) {
	header.Algorithm = signer.Alg()
	headerEncoded := header.Encode()
	payloadEncoded := encoding.Encode(payload)

	signature, err := signer.Sign([]byte(headerEncoded + "." + payloadEncoded))
	if err != nil {
		return nil, err
	}

	return &JWS{
		header:           header,
		headerEncoded:    headerEncoded,
		payload:          payload,
		payloadEncoded:   payloadEncoded,
		signature:        signature,
		signatureEncoded: encoding.Encode(signature),
	}, nil
}

// Split performs the structural half of compact-serialization parsing
// only: it locates exactly two literal "." delimiters and returns the
// three still-encoded segments without decoding or interpreting any of
// them. It fails with ErrInvalidCompactJWS if the dot count is not
// exactly two or if any resulting segment is empty. Split never copies
// its input; the returned segments are substrings of compact.
func Split(compact string) (header, payload, signature string, err error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: invalid number of encoded parts", ErrInvalidCompactJWS)
	}

	for _, p := range parts {
		if p == "" {
			return "", "", "", fmt.Errorf("%w: empty segment", ErrInvalidCompactJWS)
		}
	}

	return parts[0], parts[1], parts[2], nil
}

// ParseCompact parses the given compact representation into a JWS
// datastructure and returns it. It performs Split followed by base64url
// decoding of all three segments and JSON decoding of the header; any
// failure in that chain is reported as ErrInvalidCompactJWS, since the
// generic JWS value this function builds has no use for distinguishing
// which stage failed. Callers that must classify a failure more
// precisely (a structural violation from a bad alphabet byte from a
// header that isn't valid JSON) — as manifest.Verify does — should call
// Split and internal/encoding.Decode directly instead. The signature is
// NOT verified; use VerifySignature to perform the cryptographic check.
func ParseCompact(compact string) (*JWS, error) {
	headerEncoded, payloadEncoded, signatureEncoded, err := Split(compact)
	if err != nil {
		return nil, err
	}

	header, err := DecodeHeader(headerEncoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	payload, err := encoding.Decode(payloadEncoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	signature, err := encoding.Decode(signatureEncoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCompactJWS, err)
	}

	return &JWS{
		header:           *header,
		headerEncoded:    headerEncoded,
		payload:          payload,
		payloadEncoded:   payloadEncoded,
		signature:        signature,
		signatureEncoded: signatureEncoded,
	}, nil
}

// SignatureAlgorithm defines the type used to name algorithms creating
// digital signatures.
type SignatureAlgorithm string

const (
	// ALG_RS256 names RSASSA-PKCS1-v1_5 using SHA-256, as defined in
	// RFC 7518 section 3.3 (https://www.rfc-editor.org/rfc/rfc7518.html#section-3.3).
	// This is the only algorithm this module's manifest protocol accepts.
	ALG_RS256 SignatureAlgorithm = "RS256"
)

// Signer defines the interface for types implementing
// a given signature method for signing byte slices.
type Signer interface {
	// Alg returns the name of the signature algorithm as defined in
	// RFC 7518 section 3.1
	// (https://www.rfc-editor.org/rfc/rfc7518.html#section-3.1)
	Alg() SignatureAlgorithm

	// Sign calculates the signature for the given byte slice and returns
	// the signature bytes.
	Sign(data []byte) ([]byte, error)
}

// Verifier defines the interface for types verifying signatures.
type Verifier interface {
	// Verify is called to verify the given signature for the given data.
	// Implementations return nil in case of a valid signature or a non-nil error.
	// Implementations MUST NOT modify data or signature.
	Verify(alg SignatureAlgorithm, data []byte, signature []byte) error
}
