package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vacancy-backend/models"
	"vacancy-backend/utils"
)

const (
	documentRowID    = 1
	maxBackupRetries = 100
)

// documentRow holds the whole Document in a single jsonb value so rooms and
// customers are always written by the same statement.
type documentRow struct {
	ID        uint         `gorm:"primaryKey"`
	Data      models.JSONB `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (documentRow) TableName() string { return "vacancy_documents" }

type backupRow struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"uniqueIndex;not null"`
	Data      models.JSONB `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (backupRow) TableName() string { return "vacancy_backups" }

// PostgresStore persists the Document through gorm. The *gorm.DB should be
// opened with TranslateError so duplicate backup names can be retried.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&documentRow{}, &backupRow{}); err != nil {
		return nil, fmt.Errorf("migrate vacancy tables: %w", err)
	}
	return &PostgresStore{db: db, now: utils.Now}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Load(ctx context.Context) (Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).First(&row, documentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}.normalize(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("select document: %w", err)
	}

	data, err := json.Marshal(row.Data)
	if err != nil {
		return Document{}, fmt.Errorf("encode stored document: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return doc.normalize(), fmt.Errorf("decode stored document: %w", err)
	}
	return doc.normalize(), nil
}

func (s *PostgresStore) Save(ctx context.Context, doc Document) error {
	data, err := toJSONB(doc.normalize())
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	row := documentRow{ID: documentRowID, Data: data, UpdatedAt: s.now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Backup inserts a row named after the current time, adding a numeric
// suffix when that name is already taken.
func (s *PostgresStore) Backup(ctx context.Context, doc BackupDocument) (string, error) {
	data, err := toJSONB(doc)
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	now := s.now()
	stamp := utils.FileStamp(now)
	for attempt := 0; attempt < maxBackupRetries; attempt++ {
		row := backupRow{Name: backupName(stamp, attempt), Data: data, CreatedAt: now}
		err := s.db.WithContext(ctx).Create(&row).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("insert backup: %w", err)
		}
		return row.Name, nil
	}
	return "", fmt.Errorf("insert backup: no free name for %s", stamp)
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toJSONB(v interface{}) (models.JSONB, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out models.JSONB
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
