package jws

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// rsaSigner implements a signature signer using the RSASSA-PKCS1-v1_5
// algorithm with SHA-256 hashing as defined in RFC 7518 section 3.3
// (https://www.rfc-editor.org/rfc/rfc7518.html#section-3.3). It exists to
// build test fixtures; manifest.Verify does not use it, see internal/pkcs1.
type rsaSigner struct {
	privateKey *rsa.PrivateKey
}

func (r *rsaSigner) Alg() SignatureAlgorithm {
	return ALG_RS256
}

func (r *rsaSigner) Sign(data []byte) ([]byte, error) {
	h := sha256.Sum256(data)
	return rsa.SignPKCS1v15(rand.Reader, r.privateKey, crypto.SHA256, h[:])
}

// RS256Signer creates a new Signer using the RS256 algorithm as specified in
// RFC 7518 section 3.3.
func RS256Signer(privateKey *rsa.PrivateKey) Signer {
	return &rsaSigner{privateKey: privateKey}
}

// --

// rsaVerifier implements a signature verifier using the RSASSA-PKCS1-v1_5
// algorithm with SHA-256 hashing. It is retained for completeness of the
// Signer/Verifier pair and for use by code that does not need to observe
// the recovered PKCS1v15 block; manifest.Verify uses internal/pkcs1 instead,
// which exposes that block for independent structural inspection.
type rsaVerifier struct {
	publicKey *rsa.PublicKey
}

func (r *rsaVerifier) Verify(alg SignatureAlgorithm, data, signature []byte) error {
	if alg != ALG_RS256 {
		return fmt.Errorf("unsupported RSA signature algorithm: %s", alg)
	}
	h := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(r.publicKey, crypto.SHA256, h[:], signature)
}

// RS256Verifier creates a Verifier for RS256 as defined in RFC 7518 section 3.3.
func RS256Verifier(publicKey *rsa.PublicKey) Verifier {
	return &rsaVerifier{publicKey: publicKey}
}
