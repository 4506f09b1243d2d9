package buffer_test

import (
	"bytes"
	"testing"

	"mcserverd/internal/buffer"
)

func TestCursorByteRoundTrip(t *testing.T) {
	c := buffer.New()
	c.WriteByte(0x01)
	c.WriteBytes([]byte{0x02, 0x03})
	c.WriteUint32(0xDEADBEEF)

	if got := c.Bytes(); !bytes.Equal(got[:3], []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("Bytes() prefix = %v", got[:3])
	}

	b, err := c.ReadByte()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadByte() = %v, %v", b, err)
	}
	rest, err := c.ReadBytes(2)
	if err != nil || !bytes.Equal(rest, []byte{0x02, 0x03}) {
		t.Fatalf("ReadBytes() = %v, %v", rest, err)
	}
	v, err := c.ReadUint32()
	if err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadUint32() = %#x, %v", v, err)
	}
}

func TestCursorReadPastWriteCursorFails(t *testing.T) {
	c := buffer.NewFromBytes([]byte{0x01})
	if _, err := c.ReadBytes(2); err != buffer.ErrUnexpectedEOF {
		t.Fatalf("ReadBytes() err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestCursorBitAccessorsMSBFirst(t *testing.T) {
	c := buffer.New()
	// 1011 0000 -> 0xB0
	for _, bit := range []bool{true, false, true, true, false, false, false, false} {
		c.WriteBit(bit)
	}
	if got := c.Bytes(); !bytes.Equal(got, []byte{0xB0}) {
		t.Fatalf("Bytes() = %#x, want 0xb0", got)
	}

	r := buffer.NewFromBytes([]byte{0xB0})
	want := []bool{true, false, true, true, false, false, false, false}
	for i, w := range want {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit() #%d error = %v", i, err)
		}
		if got != w {
			t.Fatalf("ReadBit() #%d = %v, want %v", i, got, w)
		}
	}
}

func TestFlushBitAdvancesToWholeByte(t *testing.T) {
	c := buffer.New()
	c.WriteBit(true)
	c.WriteBit(true)
	c.FlushWriteBit()
	c.WriteByte(0xFF)

	got := c.Bytes()
	if len(got) != 2 {
		t.Fatalf("len(Bytes()) = %d, want 2", len(got))
	}
	if got[0] != 0b11000000 {
		t.Fatalf("Bytes()[0] = %#b, want 0b11000000", got[0])
	}
	if got[1] != 0xFF {
		t.Fatalf("Bytes()[1] = %#x, want 0xff", got[1])
	}
}

func TestCompactSlidesUnreadBytesToFront(t *testing.T) {
	c := buffer.New()
	c.WriteBytes([]byte{1, 2, 3, 4, 5})
	if _, err := c.ReadBytes(3); err != nil {
		t.Fatal(err)
	}
	c.Compact()
	if c.ReadPos() != 0 {
		t.Fatalf("ReadPos() = %d, want 0 after compact", c.ReadPos())
	}
	if !bytes.Equal(c.Bytes(), []byte{4, 5}) {
		t.Fatalf("Bytes() = %v, want [4 5]", c.Bytes())
	}
	c.WriteBytes([]byte{6})
	rest, err := c.ReadBytes(3)
	if err != nil || !bytes.Equal(rest, []byte{4, 5, 6}) {
		t.Fatalf("ReadBytes() = %v, %v", rest, err)
	}
}

func TestCursorIsSourceAndSinkInOneInstance(t *testing.T) {
	c := buffer.New()
	c.WriteUint16(1234)
	c.WriteUint16(5678)

	a, err := c.ReadUint16()
	if err != nil || a != 1234 {
		t.Fatalf("ReadUint16() = %v, %v", a, err)
	}
	c.WriteUint16(9)
	b, err := c.ReadUint16()
	if err != nil || b != 5678 {
		t.Fatalf("ReadUint16() = %v, %v", b, err)
	}
}
