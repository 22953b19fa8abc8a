package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vacancy-backend/models"
	"vacancy-backend/utils"
)

// CustomerRepository exposes CRUD over the registry's customers. Every
// customer it returns, except from Delete, is enriched with room info.
type CustomerRepository struct {
	reg *Registry
}

func (r *CustomerRepository) List() []models.CustomerWithRoom {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()
	return enrichAll(r.reg.customers, r.reg.rooms)
}

func (r *CustomerRepository) Get(id int) (models.CustomerWithRoom, error) {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()

	i := r.reg.customerIndexLocked(id)
	if i < 0 {
		return models.CustomerWithRoom{}, ErrCustomerNotFound
	}
	return Enrich(r.reg.customers[i], r.reg.rooms), nil
}

// Create requires non-empty name and phone strings and, when roomId is set,
// an existing room. Nothing is stored if validation fails.
func (r *CustomerRepository) Create(ctx context.Context, fields models.JSONB) (models.CustomerWithRoom, error) {
	name, ok := utils.RequiredString(fields, "name")
	if !ok {
		return models.CustomerWithRoom{}, &ValidationError{Field: "name", Message: "name and phone are required"}
	}
	phone, ok := utils.RequiredString(fields, "phone")
	if !ok {
		return models.CustomerWithRoom{}, &ValidationError{Field: "phone", Message: "name and phone are required"}
	}

	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	roomID, err := reg.resolveRoomLocked(fields["roomId"])
	if err != nil {
		return models.CustomerWithRoom{}, err
	}

	id := nextID(reg.customers, func(c models.Customer) int { return c.ID }, reg.lastCustomerID)
	reg.lastCustomerID = id

	customer := models.Customer{
		ID:        id,
		Name:      name,
		Phone:     phone,
		RoomID:    roomID,
		Fields:    fields.Without(models.CustomerReservedKeys...),
		CreatedAt: reg.now(),
	}
	reg.customers = append(reg.customers, customer)
	reg.flushLocked(ctx)

	reg.logger.Info("Customer created", zap.Int("customer_id", id), zap.Intp("room_id", roomID))
	return Enrich(customer, reg.rooms), nil
}

// Update replaces every caller field of the customer; id and createdAt
// survive. Leaving roomId out unlinks the customer from its room.
func (r *CustomerRepository) Update(ctx context.Context, id int, fields models.JSONB) (models.CustomerWithRoom, error) {
	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	i := reg.customerIndexLocked(id)
	if i < 0 {
		return models.CustomerWithRoom{}, ErrCustomerNotFound
	}
	roomID, err := reg.resolveRoomLocked(fields["roomId"])
	if err != nil {
		return models.CustomerWithRoom{}, err
	}

	// only non-empty strings become Name/Phone; any other value the caller
	// sent, "" included, is kept verbatim in Fields
	keep := models.CustomerReservedKeys
	name, _ := fields["name"].(string)
	if _, present := fields["name"]; present && name == "" {
		keep = without(keep, "name")
	}
	phone, _ := fields["phone"].(string)
	if _, present := fields["phone"]; present && phone == "" {
		keep = without(keep, "phone")
	}

	updated := reg.now()
	reg.customers[i] = models.Customer{
		ID:        id,
		Name:      name,
		Phone:     phone,
		RoomID:    roomID,
		Fields:    fields.Without(keep...),
		CreatedAt: reg.customers[i].CreatedAt,
		UpdatedAt: &updated,
	}
	reg.flushLocked(ctx)

	reg.logger.Info("Customer updated", zap.Int("customer_id", id), zap.Intp("room_id", roomID))
	return Enrich(reg.customers[i], reg.rooms), nil
}

// Delete removes the customer unconditionally and returns it unenriched.
func (r *CustomerRepository) Delete(ctx context.Context, id int) (models.Customer, error) {
	reg := r.reg
	reg.mu.Lock()
	defer reg.mu.Unlock()

	i := reg.customerIndexLocked(id)
	if i < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}
	deleted := reg.customers[i]
	reg.customers = append(reg.customers[:i], reg.customers[i+1:]...)
	reg.flushLocked(ctx)

	reg.logger.Info("Customer deleted", zap.Int("customer_id", id))
	return deleted, nil
}

// ListByRoom returns the customers referencing roomID.
func (r *CustomerRepository) ListByRoom(roomID int) ([]models.CustomerWithRoom, error) {
	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()

	room, ok := r.reg.findRoomLocked(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	rooms := []models.Room{room}
	out := []models.CustomerWithRoom{}
	for _, c := range r.reg.customers {
		if c.InRoom(roomID) {
			out = append(out, Enrich(c, rooms))
		}
	}
	return out, nil
}

// Search matches query case-insensitively anywhere in the customer name.
func (r *CustomerRepository) Search(query string) []models.CustomerWithRoom {
	needle := strings.ToLower(query)

	r.reg.mu.RLock()
	defer r.reg.mu.RUnlock()

	out := []models.CustomerWithRoom{}
	for _, c := range r.reg.customers {
		if c.Name != "" && strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, Enrich(c, r.reg.rooms))
		}
	}
	return out
}

// resolveRoomLocked interprets a roomId value from caller input. Blank values
// mean no room; anything else must name an existing room.
func (r *Registry) resolveRoomLocked(v interface{}) (*int, error) {
	if utils.IsBlank(v) {
		return nil, nil
	}
	id, ok := utils.PositiveInt(v)
	if !ok {
		return nil, &ValidationError{Field: "roomId", Message: "room not found"}
	}
	if _, ok := r.findRoomLocked(id); !ok {
		return nil, &ValidationError{Field: "roomId", Message: "room not found"}
	}
	return &id, nil
}

func without(keys []string, drop string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != drop {
			out = append(out, k)
		}
	}
	return out
}
