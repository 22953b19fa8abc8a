package services

import "vacancy-backend/models"

// Enrich copies c and attaches the name and type of the room it references.
// Both stay nil when the customer has no room or the room is gone.
func Enrich(c models.Customer, rooms []models.Room) models.CustomerWithRoom {
	out := models.CustomerWithRoom{Customer: c.Clone()}
	if c.RoomID == nil {
		return out
	}
	for _, room := range rooms {
		if room.ID == *c.RoomID {
			out.RoomName = room.Name()
			out.RoomType = room.Type()
			break
		}
	}
	return out
}

func enrichAll(customers []models.Customer, rooms []models.Room) []models.CustomerWithRoom {
	out := make([]models.CustomerWithRoom, 0, len(customers))
	for _, c := range customers {
		out = append(out, Enrich(c, rooms))
	}
	return out
}
