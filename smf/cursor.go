package smf

// MaxVLQBytes bounds a variable-length quantity. Ten 7-bit groups cover a
// full uint64; anything longer is treated as malformed input.
const MaxVLQBytes = 10

// Cursor reads big-endian values from an immutable byte slice and never
// reads at or beyond its end bound.
type Cursor struct {
	data []byte
	pos  int
	end  int
}

// NewCursor returns a cursor over the whole of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, end: len(data)}
}

// Pos is the absolute offset of the next byte to be read.
func (c *Cursor) Pos() int { return c.pos }

// End is the exclusive end bound.
func (c *Cursor) End() int { return c.end }

// Remaining reports how many bytes may still be read.
func (c *Cursor) Remaining() int { return c.end - c.pos }

// Done reports whether the cursor reached its end bound.
func (c *Cursor) Done() bool { return c.pos >= c.end }

// Unread steps back one byte. It is used to re-dispatch a running-status
// data byte.
func (c *Cursor) Unread() {
	if c.pos > 0 {
		c.pos--
	}
}

// Sub returns a cursor limited to the next n bytes and advances c past
// them. Offsets reported by the sub-cursor stay absolute.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if n < 0 || n > c.Remaining() {
		return nil, newError(OutOfRange, c.pos, "sub range")
	}
	sub := &Cursor{data: c.data, pos: c.pos, end: c.pos + n}
	c.pos += n
	return sub, nil
}

// Skip advances n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return newError(OutOfRange, c.pos, "skip")
	}
	c.pos += n
	return nil
}

func (c *Cursor) need(n int, op string) error {
	if n > c.Remaining() {
		return newError(OutOfRange, c.pos, op)
	}
	return nil
}

func (c *Cursor) ReadU8() (byte, error) {
	if err := c.need(1, "read_u8"); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.need(2, "read_u16"); err != nil {
		return 0, err
	}
	d := c.data[c.pos:]
	c.pos += 2
	return uint16(d[0])<<8 | uint16(d[1]), nil
}

func (c *Cursor) ReadU24() (uint32, error) {
	if err := c.need(3, "read_u24"); err != nil {
		return 0, err
	}
	d := c.data[c.pos:]
	c.pos += 3
	return uint32(d[0])<<16 | uint32(d[1])<<8 | uint32(d[2]), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.need(4, "read_u32"); err != nil {
		return 0, err
	}
	d := c.data[c.pos:]
	c.pos += 4
	return uint32(d[0])<<24 | uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3]), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.need(8, "read_u64"); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range c.data[c.pos : c.pos+8] {
		v = v<<8 | uint64(b)
	}
	c.pos += 8
	return v, nil
}

// ReadBytes copies the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, newError(OutOfRange, c.pos, "read_bytes")
	}
	if err := c.need(n, "read_bytes"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// ReadVLQ decodes a MIDI variable-length quantity: 7 bits per byte, most
// significant group first, high bit set on every byte but the last.
func (c *Cursor) ReadVLQ() (uint64, error) {
	start := c.pos
	var v uint64
	for i := 0; i < MaxVLQBytes; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, newError(OutOfRange, start, "variable length quantity")
		}
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, newError(OutOfRange, start, "variable length quantity too long")
}

// AppendVLQ appends the variable-length encoding of v to dst.
func AppendVLQ(dst []byte, v uint64) []byte {
	var buf [MaxVLQBytes]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(dst, buf[i:]...)
}
