package codec

import "testing"

func TestEncodeDocAllTokensTheSame(t *testing.T) {
	tag, _, payload := EncodeDoc([]int32{5, 5, 5, 5})
	if tag != CodecAllTokensTheSame {
		t.Fatalf("tag = %d, want CodecAllTokensTheSame", tag)
	}
	if len(payload) != 4 {
		t.Fatalf("payload length = %d, want 4 (WidthInt)", len(payload))
	}
	got := decodeSigned(payload, WidthInt)
	if got != 5 {
		t.Fatalf("decoded = %d, want 5", got)
	}
}

func TestEncodeDocByteExactExample(t *testing.T) {
	// S1 from the testable-properties worked example: term ids 3,1,3,2 ->
	// bytes 03 01 03 02 under WidthByte.
	tag, param, payload := EncodeDoc([]int32{3, 1, 3, 2})
	if tag != CodecValuePerToken || param != WidthByte {
		t.Fatalf("tag/param = %d/%d, want ValuePerToken/Byte", tag, param)
	}
	want := []byte{3, 1, 3, 2}
	if len(payload) != len(want) {
		t.Fatalf("payload = %v, want %v", payload, want)
	}
	for i := range want {
		if payload[i] != want[i] {
			t.Fatalf("payload = %v, want %v", payload, want)
		}
	}
}

func TestEncodeDocEmpty(t *testing.T) {
	tag, param, payload := EncodeDoc(nil)
	if tag != CodecValuePerToken || param != WidthByte || len(payload) != 0 {
		t.Fatalf("empty doc = (%d,%d,%v), want (ValuePerToken,Byte,[])", tag, param, payload)
	}
}

func TestEncodeDecodeRoundTripAllWidths(t *testing.T) {
	cases := []struct {
		name   string
		tokens []int32
		width  int8
	}{
		{"byte", []int32{1, 2, 3, -1, 127, -128}, WidthByte},
		{"short", []int32{1, 300, -1, 32767, -32768}, WidthShort},
		{"threeByte", []int32{1, 70000, -1, 8388607, -8388608}, WidthThreeBytes},
		{"int", []int32{1, 9000000, -1, 2147483647, -2147483648}, WidthInt},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tag, param, payload := EncodeDoc(c.tokens)
			if tag != CodecValuePerToken {
				t.Fatalf("tag = %d, want CodecValuePerToken", tag)
			}
			if param != c.width {
				t.Fatalf("width = %d, want %d", param, c.width)
			}
			entry := TokensIndexEntry{Length: int32(len(c.tokens)), CodecTag: tag, CodecParam: param}
			decoded, err := DecodeRange(entry, payload, 0, len(c.tokens))
			if err != nil {
				t.Fatalf("DecodeRange: %v", err)
			}
			for i, want := range c.tokens {
				if decoded[i] != want {
					t.Fatalf("decoded[%d] = %d, want %d", i, decoded[i], want)
				}
			}
		})
	}
}

func TestDecodeRangePartial(t *testing.T) {
	tokens := []int32{10, 20, 30, 40, 50}
	tag, param, payload := EncodeDoc(tokens)
	entry := TokensIndexEntry{Length: int32(len(tokens)), CodecTag: tag, CodecParam: param}

	decoded, err := DecodeRange(entry, payload, 1, 4)
	if err != nil {
		t.Fatalf("DecodeRange: %v", err)
	}
	want := []int32{20, 30, 40}
	for i := range want {
		if decoded[i] != want[i] {
			t.Fatalf("decoded = %v, want %v", decoded, want)
		}
	}
}

func TestDecodeRangeOutOfBounds(t *testing.T) {
	entry := TokensIndexEntry{Length: 3, CodecTag: CodecValuePerToken, CodecParam: WidthByte}
	if _, err := DecodeRange(entry, []byte{1, 2, 3}, 2, 5); err == nil {
		t.Fatal("expected error for end > length")
	}
	if _, err := DecodeRange(entry, []byte{1, 2, 3}, -1, 2); err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestWidthForMaxTermID(t *testing.T) {
	cases := []struct {
		id   int32
		want int8
	}{
		{0, WidthByte},
		{127, WidthByte},
		{128, WidthShort},
		{32767, WidthShort},
		{32768, WidthThreeBytes},
		{8388607, WidthThreeBytes},
		{8388608, WidthInt},
	}
	for _, c := range cases {
		if got := widthForMaxTermID(c.id); got != c.want {
			t.Errorf("widthForMaxTermID(%d) = %d, want %d", c.id, got, c.want)
		}
	}
}
