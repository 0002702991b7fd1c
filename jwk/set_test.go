package jwk

import (
	"crypto/rsa"
	"encoding/json"
	"math/big"
	"testing"
)

func TestSet_FirstAndHas(t *testing.T) {
	k1 := &RSAPublicKey{
		KeyDescription: KeyDescription{KeyID: "root-1"},
		PublicKey:      &rsa.PublicKey{N: big.NewInt(1), E: 2},
	}
	k2 := &RSAPublicKey{
		KeyDescription: KeyDescription{KeyID: "root-2"},
		PublicKey:      &rsa.PublicKey{N: big.NewInt(3), E: 2},
	}

	set := Set{k1, k2}

	if !set.Has(WithID("root-2")) {
		t.Error("expected set to contain root-2")
	}

	if set.Has(WithID("root-3")) {
		t.Error("did not expect set to contain root-3")
	}

	found := set.First(WithID("root-1"))
	if found == nil || found.ID() != "root-1" {
		t.Errorf("got %v, want root-1", found)
	}

	if set.First(WithID("missing")) != nil {
		t.Error("expected First to return nil for an unknown id")
	}
}

func TestSet_JSONRoundTrip(t *testing.T) {
	k1 := &RSAPublicKey{
		KeyDescription: KeyDescription{KeyUse: UseSignature, KeyID: "root-1"},
		PublicKey:      &rsa.PublicKey{N: big.NewInt(1), E: 2},
	}

	set := Set{k1}

	b, err := json.Marshal(set)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Set
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	if len(decoded) != 1 || decoded[0].ID() != "root-1" {
		t.Errorf("unexpected round-tripped set: %+v", decoded)
	}
}

func TestSet_rejectsUnsupportedKeyType(t *testing.T) {
	var decoded Set
	err := json.Unmarshal([]byte(`{"keys":[{"kty":"EC"}]}`), &decoded)
	if err == nil {
		t.Error("expected an error unmarshaling a non-RSA key")
	}
}
