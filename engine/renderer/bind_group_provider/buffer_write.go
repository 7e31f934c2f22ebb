package bind_group_provider

// writeAlignment is the granularity queue buffer writes must respect in offset and size.
const writeAlignment = 4

// BufferWrite is one queued upload into the buffer at Binding of Provider, starting Offset
// bytes in. The frame host collects them during event processing and flushes them before the draw.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Fits reports whether the write is 4-byte aligned and lies inside a buffer of bufferSize bytes.
//
// Parameters:
//   - bufferSize: the size of the target buffer in bytes
//
// Returns:
//   - bool: true if the queue accepts the write
func (w BufferWrite) Fits(bufferSize uint64) bool {
	size := uint64(len(w.Data))
	if w.Offset%writeAlignment != 0 || size%writeAlignment != 0 {
		return false
	}
	return w.Offset+size <= bufferSize
}
