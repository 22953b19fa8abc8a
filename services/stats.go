package services

// Stats is recomputed from memory on every call.
type Stats struct {
	TotalRooms           int `json:"totalRooms"`
	TotalCustomers       int `json:"totalCustomers"`
	OccupiedRooms        int `json:"occupiedRooms"`
	EmptyRooms           int `json:"emptyRooms"`
	CustomersWithoutRoom int `json:"customersWithoutRoom"`
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	referenced := make(map[int]struct{}, len(r.rooms))
	s := Stats{TotalRooms: len(r.rooms), TotalCustomers: len(r.customers)}
	for _, c := range r.customers {
		if c.RoomID == nil {
			s.CustomersWithoutRoom++
			continue
		}
		referenced[*c.RoomID] = struct{}{}
	}
	for _, room := range r.rooms {
		if _, ok := referenced[room.ID]; ok {
			s.OccupiedRooms++
		} else {
			s.EmptyRooms++
		}
	}
	return s
}
