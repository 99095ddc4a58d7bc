package audio

// Buffer is the online ASR engine's sliding audio window: an ordered
// sequence of samples plus the absolute session time of sample zero. Only
// the engine mutates it; every other component treats it as read-only.
//
// Invariant: AbsoluteTime(i) == offset + float64(i)/SampleRate for every
// valid index i.
type Buffer struct {
	samples []float32
	offset  float64 // buffer_time_offset, seconds
}

// NewBuffer returns an empty buffer whose sample zero starts at session
// time 0.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Insert appends samples to the buffer. Non-blocking, no side effects
// beyond the append.
func (b *Buffer) Insert(samples []float32) {
	b.samples = append(b.samples, samples...)
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// DurationS returns the buffered audio length in seconds.
func (b *Buffer) DurationS() float64 {
	return float64(len(b.samples)) / SampleRate
}

// Offset returns buffer_time_offset: the absolute session time of sample 0.
func (b *Buffer) Offset() float64 {
	return b.offset
}

// EndTime returns the absolute session time just past the last buffered
// sample.
func (b *Buffer) EndTime() float64 {
	return b.offset + b.DurationS()
}

// Samples returns the buffered samples. The caller must not retain the
// slice across a Trim call — trimming may reuse the backing array.
func (b *Buffer) Samples() []float32 {
	return b.samples
}

// AbsoluteTime converts a sample index within the current buffer to
// absolute session time.
func (b *Buffer) AbsoluteTime(i int) float64 {
	return b.offset + float64(i)/SampleRate
}

// Trim drops every sample whose absolute time is < t and advances offset
// to t. Trimming to a point before the current offset, or past the end of
// the buffer, is a no-op / clamped respectively. Returns the new offset.
func (b *Buffer) Trim(t float64) float64 {
	if t <= b.offset {
		return b.offset
	}
	dropSamples := int((t - b.offset) * SampleRate)
	if dropSamples <= 0 {
		return b.offset
	}
	if dropSamples >= len(b.samples) {
		b.samples = b.samples[:0]
		b.offset = t
		return b.offset
	}
	b.samples = append(b.samples[:0], b.samples[dropSamples:]...)
	b.offset += float64(dropSamples) / SampleRate
	return b.offset
}
