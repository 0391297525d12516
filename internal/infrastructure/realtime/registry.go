package realtime

import (
	"sync"
)

// Registry is the process-local membership map: room name -> connections
// currently joined. It is fan-out addressing only and never a source of truth
// for post content. A room entry disappears when its last member leaves.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]map[string]*Connection // room name -> connID -> connection
	connRooms map[string]map[string]struct{}    // connID -> set of room names
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:     make(map[string]map[string]*Connection),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the room's group.
func (r *Registry) Join(roomName string, conn *Connection) {
	r.mu.Lock()
	group := r.rooms[roomName]
	if group == nil {
		group = make(map[string]*Connection)
		r.rooms[roomName] = group
	}
	group[conn.ID] = conn

	memberships := r.connRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.connRooms[conn.ID] = memberships
	}
	memberships[roomName] = struct{}{}
	r.mu.Unlock()
}

// Leave removes the connection from the room's group.
func (r *Registry) Leave(roomName string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(roomName, conn.ID)
	r.mu.Unlock()
}

// Detach removes the connection from every room it joined. Called when the
// socket closes.
func (r *Registry) Detach(conn *Connection) {
	r.mu.Lock()
	for roomName := range r.connRooms[conn.ID] {
		r.leaveLocked(roomName, conn.ID)
	}
	delete(r.connRooms, conn.ID)
	r.mu.Unlock()
}

// Broadcast writes payload to all members of the room.
// excludeConnID, when non-empty, prevents delivering to that connection.
// It returns the number of successful deliveries.
func (r *Registry) Broadcast(roomName string, payload []byte, excludeConnID string) int {
	r.mu.RLock()
	group := r.rooms[roomName]
	if len(group) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range group {
		if excludeConnID != "" && conn.ID == excludeConnID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// Members reports how many connections are joined to the room.
func (r *Registry) Members(roomName string) int {
	r.mu.RLock()
	n := len(r.rooms[roomName])
	r.mu.RUnlock()
	return n
}

// Close terminates every tracked connection and clears registry state.
func (r *Registry) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.connRooms))
	seen := make(map[string]struct{}, len(r.connRooms))
	for _, group := range r.rooms {
		for id, conn := range group {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			conns = append(conns, conn)
		}
	}
	r.rooms = make(map[string]map[string]*Connection)
	r.connRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "registry shutdown")
	}
}

func (r *Registry) leaveLocked(roomName string, connID string) {
	group := r.rooms[roomName]
	if group == nil {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(r.rooms, roomName)
	}
	if memberships, ok := r.connRooms[connID]; ok {
		delete(memberships, roomName)
		if len(memberships) == 0 {
			delete(r.connRooms, connID)
		}
	}
}
