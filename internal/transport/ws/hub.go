package ws

import "sync"

// Conn is a live connection's outbound half. A send error means the peer is
// gone and the session should be pruned.
type Conn interface {
	Send(ev any) error
	Close() error
}

// Hub is the in-memory room registry and broadcast engine. Sessions are
// tracked by opaque int64 handles per room; buckets appear on first register
// and are dropped when their last session leaves. Critical sections are short
// and never span a network write.
type Hub struct {
	mu    sync.Mutex
	next  int64
	rooms map[int64]map[int64]Conn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[int64]map[int64]Conn)}
}

// Register adds the session under the room bucket and returns the handle that
// removes it later. It does not broadcast: the join protocol sends the welcome
// to the new session first and only then announces presence.
func (h *Hub) Register(roomID int64, c Conn) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	handle := h.next
	bucket, ok := h.rooms[roomID]
	if !ok {
		bucket = make(map[int64]Conn)
		h.rooms[roomID] = bucket
	}
	bucket[handle] = c
	return handle
}

// Unregister removes the session and broadcasts presence. Removing a handle
// that is already gone is a no-op.
func (h *Hub) Unregister(roomID, handle int64) {
	if h.remove(roomID, handle) {
		h.broadcastPresence(roomID)
	}
}

func (h *Hub) remove(roomID, handle int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	if _, ok := bucket[handle]; !ok {
		return false
	}
	delete(bucket, handle)
	if len(bucket) == 0 {
		delete(h.rooms, roomID)
	}
	return true
}

func (h *Hub) Count(roomID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

type entry struct {
	handle int64
	conn   Conn
}

// Broadcast delivers ev to every session in the room. It iterates a snapshot
// so concurrent register/unregister never interferes with the fan-out. A
// failed send is a deterministic disconnect: the session is pruned and closed,
// and presence is re-broadcast.
func (h *Hub) Broadcast(roomID int64, ev any) {
	h.mu.Lock()
	snapshot := make([]entry, 0, len(h.rooms[roomID]))
	for handle, c := range h.rooms[roomID] {
		snapshot = append(snapshot, entry{handle: handle, conn: c})
	}
	h.mu.Unlock()

	var pruned bool
	for _, e := range snapshot {
		if err := e.conn.Send(ev); err != nil {
			if h.remove(roomID, e.handle) {
				pruned = true
			}
			_ = e.conn.Close()
		}
	}
	if pruned {
		// dead peers were just removed, so this recursion terminates
		h.broadcastPresence(roomID)
	}
}

func (h *Hub) broadcastPresence(roomID int64) {
	h.Broadcast(roomID, PresenceEvent{
		Type:        TypePresence,
		RoomID:      roomID,
		ActiveUsers: h.Count(roomID),
	})
}
