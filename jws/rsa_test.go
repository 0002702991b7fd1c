package jws

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestRS256(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	signer := RS256Signer(privateKey)

	if signer.Alg() != ALG_RS256 {
		t.Error(signer.Alg())
	}

	data := []byte("hello, world")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatal(err)
	}

	verifier := RS256Verifier(&privateKey.PublicKey)

	if err := verifier.Verify(ALG_RS256, data, sig); err != nil {
		t.Error(err)
	}
}

func TestRS256_wrongAlgRejected(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	signer := RS256Signer(privateKey)
	data := []byte("hello, world")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatal(err)
	}

	verifier := RS256Verifier(&privateKey.PublicKey)
	if err := verifier.Verify("RS384", data, sig); err == nil {
		t.Error("expected an error for a mismatched algorithm label")
	}
}

func TestRS256_tamperedDataRejected(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	signer := RS256Signer(privateKey)
	sig, err := signer.Sign([]byte("hello, world"))
	if err != nil {
		t.Fatal(err)
	}

	verifier := RS256Verifier(&privateKey.PublicKey)
	if err := verifier.Verify(ALG_RS256, []byte("hello, world!"), sig); err == nil {
		t.Error("expected an error for tampered data")
	}
}
