package encoding

import "testing"

func TestEncode(t *testing.T) {
	act := Encode([]byte("hello, world"))

	if act != "aGVsbG8sIHdvcmxk" {
		t.Errorf("unexpected encoded string: '%s'", act)
	}
}

func TestDecode(t *testing.T) {
	act, err := Decode("aGVsbG8sIHdvcmxk")
	if err != nil {
		t.Fatal(err)
	}

	if string(act) != "hello, world" {
		t.Errorf("unexpected decoded string: '%s'", string(act))
	}
}

func TestDecode_missingPaddingReconstructed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"one pad byte needed", "aGVsbG8", "hello"},
		{"no padding needed", "aGVsbG8h", "hello!"},
		{"two pad bytes needed", "aGVsbG8sIQ", "hello,!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_explicitPaddingAccepted(t *testing.T) {
	got, err := Decode("aGVsbG8=")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("unexpected decode: %q", got)
	}
}

func TestDecode_standardAlphabetAccepted(t *testing.T) {
	// "\xfb\xff\x2f" encodes to "-_8v" URL-safe, "+/8v" standard.
	urlSafe, err := Decode("-_8v")
	if err != nil {
		t.Fatal(err)
	}
	standard, err := Decode("+/8v")
	if err != nil {
		t.Fatal(err)
	}
	if string(urlSafe) != string(standard) {
		t.Errorf("alphabets decoded to different bytes: %x vs %x", urlSafe, standard)
	}
}

func TestDecode_impossiblePaddingRejected(t *testing.T) {
	// length %4 == 1 can never be completed by adding pad bytes.
	if _, err := Decode("a"); err != ErrInvalidPadding {
		t.Errorf("expected ErrInvalidPadding, got %v", err)
	}
}

func TestDecode_internalEqualsRejected(t *testing.T) {
	if _, err := Decode("aGV=sbG8"); err == nil {
		t.Error("expected an error for internal '=' byte")
	}
}

func TestDecode_invalidAlphabetByte(t *testing.T) {
	if _, err := Decode("!!!!"); err == nil {
		t.Error("expected an error for an invalid alphabet byte")
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x00},
		[]byte("a"),
		[]byte("ab"),
		[]byte("abc"),
		[]byte("abcd"),
		make([]byte, 384),
	}

	for _, in := range inputs {
		encoded := Encode(in)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode(%q): %v", encoded, err)
		}
		if string(decoded) != string(in) {
			t.Errorf("round trip mismatch for %x: got %x", in, decoded)
		}
	}
}
