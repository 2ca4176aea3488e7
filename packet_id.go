package mqttlite

// PacketIDAllocator hands out packet identifiers in the range 1-65535.
// Identifiers increase monotonically and wrap from 65535 back to 1; zero is
// never returned. It is not safe for concurrent use.
type PacketIDAllocator struct {
	next uint16
}

// NewPacketIDAllocator creates an allocator whose first identifier is 1.
func NewPacketIDAllocator() *PacketIDAllocator {
	return &PacketIDAllocator{next: 1}
}

// Next returns the next packet identifier.
func (a *PacketIDAllocator) Next() uint16 {
	if a.next == 0 {
		a.next = 1
	}

	id := a.next
	a.next++
	if a.next == 0 {
		a.next = 1
	}

	return id
}

// Peek returns the identifier the next call to Next will return.
func (a *PacketIDAllocator) Peek() uint16 {
	if a.next == 0 {
		return 1
	}
	return a.next
}
