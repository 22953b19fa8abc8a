package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"vacancy-backend/models"
	"vacancy-backend/store"
	"vacancy-backend/utils"
)

// Registry owns the room and customer collections. Every mutation, including
// its id allocation and the flush that follows, runs under the write lock, so
// at most one mutation is in flight at any time.
type Registry struct {
	mu        sync.RWMutex
	rooms     []models.Room
	customers []models.Customer

	// highest ids handed out this session; deleted ids are not reissued
	lastRoomID     int
	lastCustomerID int

	persister *store.Persister
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistry loads the stored state through persister.
func NewRegistry(ctx context.Context, persister *store.Persister, logger *zap.Logger) *Registry {
	doc := persister.Load(ctx)
	r := &Registry{
		rooms:     doc.Rooms,
		customers: doc.Customers,
		persister: persister,
		logger:    logger.Named("registry"),
		now:       utils.Now,
	}
	r.logger.Info("Loaded data from storage",
		zap.Int("rooms", len(r.rooms)), zap.Int("customers", len(r.customers)))
	return r
}

func (r *Registry) Rooms() *RoomRepository { return &RoomRepository{reg: r} }

func (r *Registry) Customers() *CustomerRepository { return &CustomerRepository{reg: r} }

// Flush writes the current state. Failures only show up in Health.
func (r *Registry) Flush(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked(ctx)
}

// flushLocked is detached from ctx cancellation: a mutation that already
// happened in memory is written even if the caller has gone away.
func (r *Registry) flushLocked(ctx context.Context) {
	r.persister.Save(context.WithoutCancel(ctx), r.documentLocked())
}

func (r *Registry) documentLocked() store.Document {
	doc := store.Document{
		Rooms:     make([]models.Room, len(r.rooms)),
		Customers: make([]models.Customer, len(r.customers)),
	}
	for i, room := range r.rooms {
		doc.Rooms[i] = room.Clone()
	}
	for i, c := range r.customers {
		doc.Customers[i] = c.Clone()
	}
	return doc
}

// Backup writes a timestamped copy of the current state.
func (r *Registry) Backup(ctx context.Context) (store.BackupResult, error) {
	r.mu.RLock()
	doc := r.documentLocked()
	r.mu.RUnlock()
	return r.persister.Backup(ctx, doc)
}

// Health exposes the persistence status next to the collection sizes.
type Health struct {
	State string `json:"status"`
	store.Status
	TotalRooms     int `json:"totalRooms"`
	TotalCustomers int `json:"totalCustomers"`
}

func (r *Registry) Health() Health {
	r.mu.RLock()
	rooms, customers := len(r.rooms), len(r.customers)
	r.mu.RUnlock()

	st := r.persister.Status()
	h := Health{State: "ok", Status: st, TotalRooms: rooms, TotalCustomers: customers}
	if !st.Healthy() {
		h.State = "degraded"
	}
	return h
}

func (r *Registry) roomIndexLocked(id int) int {
	for i := range r.rooms {
		if r.rooms[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) customerIndexLocked(id int) int {
	for i := range r.customers {
		if r.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) findRoomLocked(id int) (models.Room, bool) {
	if i := r.roomIndexLocked(id); i >= 0 {
		return r.rooms[i], true
	}
	return models.Room{}, false
}

// nextID returns one more than the largest of last and every id in ids.
func nextID[T any](items []T, id func(T) int, last int) int {
	max := last
	for _, it := range items {
		if v := id(it); v > max {
			max = v
		}
	}
	return max + 1
}
