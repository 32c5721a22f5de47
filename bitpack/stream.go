package bitpack

// Stream reads consecutive fields from a packed buffer.
type Stream struct {
	Buf    []byte
	Offset uint64
}

func NewStream(buf []byte) *Stream {
	return &Stream{Buf: buf}
}

// Next reads the next width bits. A zero width field is empty and reads as 0.
func (s *Stream) Next(width uint) (uint32, error) {
	if width == 0 {
		return 0, nil
	}
	v, err := Read(s.Buf, s.Offset, width)
	if err != nil {
		return 0, err
	}
	s.Offset += uint64(width)
	return v, nil
}

// NextField reads the next biased field.
func (s *Stream) NextField(f Field) (int64, error) {
	raw, err := s.Next(f.Width)
	if err != nil {
		return 0, err
	}
	return f.Decode(raw), nil
}

// Sink writes consecutive fields into a packed buffer.
type Sink struct {
	Buf    []byte
	Offset uint64
}

// Put writes value in the next width bits. A zero width field writes nothing.
func (s *Sink) Put(width uint, value uint32) error {
	if width == 0 {
		return nil
	}
	if err := Write(s.Buf, s.Offset, width, value); err != nil {
		return err
	}
	s.Offset += uint64(width)
	return nil
}

// PutField writes v as a biased field.
func (s *Sink) PutField(f Field, v int64) error {
	raw, err := f.Encode(v)
	if err != nil {
		return err
	}
	return s.Put(f.Width, raw)
}
