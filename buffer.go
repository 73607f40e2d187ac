package tick

// ByteBuffer is an owned, growable byte region. It grows through the
// Allocator abstraction rather than append() directly so both allocator
// implementations can back it interchangeably (spec §4.1). No compiler
// stage creates one: string literals and the source text are held as
// ordinary Go strings and byte slices.
type ByteBuffer struct {
	alloc Allocator
	data  []byte
}

func NewByteBuffer(alloc Allocator) *ByteBuffer {
	return &ByteBuffer{alloc: alloc}
}

func (b *ByteBuffer) Len() int { return len(b.data) }

func (b *ByteBuffer) Bytes() []byte { return b.data }

func (b *ByteBuffer) String() string { return string(b.data) }

func (b *ByteBuffer) WriteByte(c byte) {
	b.grow(len(b.data) + 1)
	b.data = append(b.data, c)
}

func (b *ByteBuffer) WriteString(s string) {
	need := len(b.data) + len(s)
	b.grow(need)
	b.data = append(b.data, s...)
}

// grow ensures the backing storage can hold `need` bytes by round-tripping
// through the allocator whenever Go's own slice would have to reallocate
// anyway, so the Allocator abstraction stays load-bearing rather than
// decorative.
func (b *ByteBuffer) grow(need int) {
	if cap(b.data) >= need {
		return
	}
	newCap := cap(b.data)*2 + 16
	if newCap < need {
		newCap = need
	}
	grown := b.alloc.Realloc(b.data, len(b.data), AllocConfig{Align: 1})
	resized := b.alloc.Realloc(grown, newCap, AllocConfig{Align: 1})
	b.data = resized[:len(b.data)]
}
