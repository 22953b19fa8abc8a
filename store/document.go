package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"vacancy-backend/models"
)

// Document is the unit of persistence: both collections, always together.
type Document struct {
	Rooms     []models.Room     `json:"rooms"`
	Customers []models.Customer `json:"customers"`
}

// BackupDocument is a Document stamped with the time the copy was taken.
type BackupDocument struct {
	Rooms      []models.Room     `json:"rooms"`
	Customers  []models.Customer `json:"customers"`
	BackupDate string            `json:"backupDate"`
}

// Backend reads and writes the Document. Implementations must write both
// collections in one operation.
type Backend interface {
	Name() string
	// Load may return a usable Document together with a *SkippedRecordsError.
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	// Backup writes a copy next to (never over) the main document or an
	// earlier backup, and returns the name it was stored under.
	Backup(ctx context.Context, doc BackupDocument) (string, error)
	Close() error
}

// SkippedRecordsError reports records that could not be read from an
// otherwise valid document. The rest of the document was loaded.
type SkippedRecordsError struct {
	Err error
}

func (e *SkippedRecordsError) Error() string {
	return "skipped unreadable records: " + e.Err.Error()
}

func (e *SkippedRecordsError) Unwrap() error { return e.Err }

// normalize replaces nil collections so they encode as [] rather than null.
func (d Document) normalize() Document {
	if d.Rooms == nil {
		d.Rooms = []models.Room{}
	}
	if d.Customers == nil {
		d.Customers = []models.Customer{}
	}
	return d
}

// decodeDocument decodes each record on its own so one bad record does not
// cost the others.
func decodeDocument(data []byte) (Document, error) {
	var raw struct {
		Rooms     []json.RawMessage `json:"rooms"`
		Customers []json.RawMessage `json:"customers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}

	var skipped *multierror.Error
	doc := Document{
		Rooms:     make([]models.Room, 0, len(raw.Rooms)),
		Customers: make([]models.Customer, 0, len(raw.Customers)),
	}
	for i, item := range raw.Rooms {
		var room models.Room
		if err := json.Unmarshal(item, &room); err != nil {
			skipped = multierror.Append(skipped, fmt.Errorf("rooms[%d]: %w", i, err))
			continue
		}
		doc.Rooms = append(doc.Rooms, room)
	}
	for i, item := range raw.Customers {
		var c models.Customer
		if err := json.Unmarshal(item, &c); err != nil {
			skipped = multierror.Append(skipped, fmt.Errorf("customers[%d]: %w", i, err))
			continue
		}
		doc.Customers = append(doc.Customers, c)
	}
	if skipped != nil {
		return doc, &SkippedRecordsError{Err: skipped}
	}
	return doc, nil
}

func backupName(stamp string, attempt int) string {
	if attempt == 0 {
		return "backup-" + stamp
	}
	return fmt.Sprintf("backup-%s-%d", stamp, attempt)
}
