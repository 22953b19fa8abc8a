package services

import (
	"context"

	"go.uber.org/zap"

	"vacancy-backend/models"
)

// RoomRepository exposes CRUD over the registry's rooms.
type RoomRepository struct {
	reg *Registry
}

// List returns all rooms in insertion order.
func (r *RoomRepository) List() []models.Room {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()

	out := make([]models.Room, len(r.reg.rooms))
	for i, room := range r.reg.rooms {
		out[i] = room.Clone()
	}
	return out
}

func (r *RoomRepository) Get(id int) (models.Room, error) {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()

	room, ok := r.reg.findRoomLocked(id)
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}
	return room.Clone(), nil
}

// Create stores a room built from the caller's fields. id, createdAt and
// updatedAt in fields are ignored.
func (r *RoomRepository) Create(ctx context.Context, fields models.JSONB) models.Room {
	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := nextID(reg.rooms, func(rm models.Room) int { return rm.ID }, reg.lastRoomID)
	reg.lastRoomID = id

	room := models.Room{
		ID:        id,
		Fields:    fields.Without(models.RoomReservedKeys...),
		CreatedAt: reg.now(),
	}
	reg.rooms = append(reg.rooms, room)
	reg.flushLocked(ctx)

	reg.logger.Info("Room created", zap.Int("room_id", id))
	return room.Clone()
}

// Update replaces every caller field of the room; id and createdAt survive.
func (r *RoomRepository) Update(ctx context.Context, id int, fields models.JSONB) (models.Room, error) {
	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	i := reg.roomIndexLocked(id)
	if i < 0 {
		return models.Room{}, ErrRoomNotFound
	}
	updated := reg.now()
	reg.rooms[i] = models.Room{
		ID:        id,
		Fields:    fields.Without(models.RoomReservedKeys...),
		CreatedAt: reg.rooms[i].CreatedAt,
		UpdatedAt: &updated,
	}
	reg.flushLocked(ctx)

	reg.logger.Info("Room updated", zap.Int("room_id", id))
	return reg.rooms[i].Clone(), nil
}

// Delete removes the room unless customers still reference it, in which case
// a *ConflictError carrying their count is returned.
func (r *RoomRepository) Delete(ctx context.Context, id int) (models.Room, error) {
	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	i := reg.roomIndexLocked(id)
	if i < 0 {
		return models.Room{}, ErrRoomNotFound
	}

	occupants := 0
	for _, c := range reg.customers {
		if c.InRoom(id) {
			occupants++
		}
	}
	if occupants > 0 {
		return models.Room{}, &ConflictError{RoomID: id, CustomersCount: occupants}
	}

	deleted := reg.rooms[i]
	reg.rooms = append(reg.rooms[:i], reg.rooms[i+1:]...)
	reg.flushLocked(ctx)

	reg.logger.Info("Room deleted", zap.Int("room_id", id))
	return deleted, nil
}
