package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancy-backend/models"
)

func TestRoomCreateAssignsIncreasingIDs(t *testing.T) {
	reg, backend := newTestRegistry(t)
	rooms := reg.Rooms()
	ctx := context.Background()

	first := rooms.Create(ctx, models.JSONB{"name": "101", "type": "studio"})
	second := rooms.Create(ctx, models.JSONB{"name": "102"})

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, models.JSONB{"name": "101", "type": "studio"}, first.Fields)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Nil(t, first.UpdatedAt)
	assert.Equal(t, 2, backend.saveCount())
}

func TestRoomIDsAreNotReusedAfterDelete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rooms := reg.Rooms()
	ctx := context.Background()

	rooms.Create(ctx, models.JSONB{})
	last := rooms.Create(ctx, models.JSONB{})
	_, err := rooms.Delete(ctx, last.ID)
	require.NoError(t, err)

	next := rooms.Create(ctx, models.JSONB{})
	assert.Equal(t, 3, next.ID)
}

func TestRoomCreateIgnoresCallerControlledKeys(t *testing.T) {
	reg, _ := newTestRegistry(t)

	room := reg.Rooms().Create(context.Background(), models.JSONB{
		"id":        float64(99),
		"createdAt": "1999-01-01T00:00:00.000Z",
		"updatedAt": "1999-01-01T00:00:00.000Z",
		"name":      "101",
	})

	assert.Equal(t, 1, room.ID)
	assert.Equal(t, models.JSONB{"name": "101"}, room.Fields)
	assert.Nil(t, room.UpdatedAt)
}

func TestRoomGetNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Rooms().Get(1)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomUpdateReplacesFieldsKeepsCreation(t *testing.T) {
	reg, backend := newTestRegistry(t)
	rooms := reg.Rooms()
	ctx := context.Background()

	orig := rooms.Create(ctx, models.JSONB{"name": "101", "type": "studio"})
	updated, err := rooms.Update(ctx, orig.ID, models.JSONB{"name": "101A"})
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, models.JSONB{"name": "101A"}, updated.Fields, "fields not sent are dropped")
	assert.Equal(t, 2, backend.saveCount())

	_, err = rooms.Update(ctx, 42, models.JSONB{})
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, 2, backend.saveCount())
}

func TestRoomDeleteBlockedByCustomers(t *testing.T) {
	reg, backend := newTestRegistry(t)
	ctx := context.Background()

	room := reg.Rooms().Create(ctx, models.JSONB{"name": "101"})
	for _, name := range []string{"Ann", "Bob"} {
		_, err := reg.Customers().Create(ctx, models.JSONB{"name": name, "phone": "555", "roomId": float64(room.ID)})
		require.NoError(t, err)
	}
	saves := backend.saveCount()

	_, err := reg.Rooms().Delete(ctx, room.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, conflict.CustomersCount)
	assert.Equal(t, room.ID, conflict.RoomID)

	_, err = reg.Rooms().Get(room.ID)
	assert.NoError(t, err, "room must survive a blocked delete")
	assert.Equal(t, saves, backend.saveCount())
}

func TestRoomDeleteRemovesAndPreservesOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rooms := reg.Rooms()
	ctx := context.Background()

	rooms.Create(ctx, models.JSONB{"name": "a"})
	rooms.Create(ctx, models.JSONB{"name": "b"})
	rooms.Create(ctx, models.JSONB{"name": "c"})

	deleted, err := rooms.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", deleted.Fields["name"])

	list := rooms.List()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, 3, list[1].ID)

	_, err = rooms.Delete(ctx, 2)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomListReturnsCopies(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Rooms().Create(context.Background(), models.JSONB{"name": "101"})

	list := reg.Rooms().List()
	list[0].Fields["name"] = "mutated"

	room, err := reg.Rooms().Get(1)
	require.NoError(t, err)
	assert.Equal(t, "101", room.Fields["name"])
}
