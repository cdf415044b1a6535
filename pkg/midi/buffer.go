package midi

// Buffer collects the raw messages of one processing block in the order the
// host delivered them. It never sorts or coalesces. A Buffer is owned by the
// audio thread and is not safe for concurrent use.
type Buffer struct {
	messages []Message
}

// NewBuffer creates a buffer with room for capacity messages.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{messages: make([]Message, 0, capacity)}
}

// Add appends a message.
func (b *Buffer) Add(m Message) {
	b.messages = append(b.messages, m)
}

// Messages returns the buffered messages. The slice is only valid until the
// next Add or Clear.
func (b *Buffer) Messages() []Message {
	return b.messages
}

// Len returns the number of buffered messages.
func (b *Buffer) Len() int {
	return len(b.messages)
}

// Clear empties the buffer, keeping its capacity.
func (b *Buffer) Clear() {
	clear(b.messages)
	b.messages = b.messages[:0]
}
