package manifest

import (
	"sync"

	"github.com/halimath/otajws/jwk"
)

// outerPayloadCap, innerPayloadCap and rsaBlockCap size Scratch's reusable,
// capped buffers. The figures mirror the observed maximums for this
// protocol's decoded payloads and recovered RSA blocks; the outer header,
// which carries the embedded inner JWS and runs close to 1400 bytes in
// practice, is not copied into a Scratch. put rejects
// anything that would exceed its destination's capacity with
// ScratchOverflow rather than silently growing the backing array, so a
// Scratch's memory footprint stays bounded across calls.
const (
	outerPayloadCap = 128
	innerPayloadCap = 768
	rsaBlockCap     = 384 // 3072-bit modulus
)

// Scratch is a reusable work area for Verify. Holding one across repeated
// verification calls avoids an allocation per call; its buffers are
// zeroed on every return from Verify, successful or not, because they
// transiently hold fragments of decrypted RSA blocks and decoded key
// material.
//
// A Scratch is not safe for concurrent use by multiple goroutines; each
// concurrent verification needs its own, or use VerifyManifest, which
// borrows one from a pool.
type Scratch struct {
	outerPayload []byte
	innerPayload []byte
	rsaBlock     []byte
}

// NewScratch allocates a Scratch sized for this protocol's largest
// observed field values.
func NewScratch() *Scratch {
	return &Scratch{
		outerPayload: make([]byte, 0, outerPayloadCap),
		innerPayload: make([]byte, 0, innerPayloadCap),
		rsaBlock:     make([]byte, 0, rsaBlockCap),
	}
}

// put copies data into *dst, reusing its existing backing array. It
// reports ok=false without modifying *dst if data would not fit within
// the array's capacity.
func put(dst *[]byte, data []byte) (ok bool) {
	if len(data) > cap(*dst) {
		return false
	}
	*dst = append((*dst)[:0], data...)
	return true
}

// wipe zeros every byte currently held in s's buffers without releasing
// their backing arrays, so the next call can reuse the allocation.
func (s *Scratch) wipe() {
	zero := func(b []byte) {
		full := b[:cap(b)]
		for i := range full {
			full[i] = 0
		}
	}
	zero(s.outerPayload)
	zero(s.innerPayload)
	zero(s.rsaBlock)

	s.outerPayload = s.outerPayload[:0]
	s.innerPayload = s.innerPayload[:0]
	s.rsaBlock = s.rsaBlock[:0]
}

var scratchPool = sync.Pool{
	New: func() interface{} { return NewScratch() },
}

// VerifyManifest is a convenience wrapper around Verify that borrows a
// Scratch from a package-level pool instead of requiring the caller to
// manage one. Use Verify directly when verifying many manifests back to
// back, to reuse a single Scratch without pool overhead.
func VerifyManifest(outerJWS, manifestPayload []byte, roots jwk.Set) Verdict {
	s := scratchPool.Get().(*Scratch)
	defer scratchPool.Put(s)

	return Verify(s, outerJWS, manifestPayload, roots)
}
