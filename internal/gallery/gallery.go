// Package gallery provides the image record store: uploaded images kept with
// their name, MIME type and upload date.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("image not found")

	// ErrUnsupportedType is returned when adding an image of a type that
	// cannot be measured.
	ErrUnsupportedType = errors.New("allowed file types are png, jpg, jpeg, gif, tiff")

	// ErrEmpty is returned when adding a record without data.
	ErrEmpty = errors.New("no file selected")
)

// AllowedTypes lists the MIME types accepted by Add.
var AllowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/tiff"}

// Record is a stored image.
type Record struct {
	ID   int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	Data []byte    `gorm:"not null" json:"-"`
	Type string    `gorm:"not null" json:"type"`
	Date time.Time `gorm:"not null;index" json:"date"`
}

// TableName sets the table name.
func (Record) TableName() string {
	return "images"
}

// Summary is a record without its image bytes, for listings.
type Summary struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
	Date time.Time `json:"date"`
	Size int       `json:"size"`
}

// Store is a gorm-backed gallery.
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger

	now func() time.Time
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the gallery database and migrates the schema. For sqlite
// dsn is a file path, and an empty path opens an in-memory database.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("unknown gallery driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gallery: %w", err)
	}
	if db.Dialector.Name() == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate gallery: %w", err)
	}

	log.Info().Str("driver", db.Dialector.Name()).Msg("gallery opened")
	return &Store{DB: db, Logger: log, now: time.Now}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Allowed reports whether mime is an accepted image type.
func Allowed(mime string) bool {
	for _, t := range AllowedTypes {
		if t == mime {
			return true
		}
	}
	return false
}

// Add stores an image and returns its record. The id is the upload time in
// milliseconds, bumped when two uploads land in the same millisecond.
func (s *Store) Add(ctx context.Context, name, mime string, data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if !Allowed(mime) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	now := s.now().UTC()
	rec := &Record{
		ID:   now.UnixMilli(),
		Name: name,
		Data: data,
		Type: mime,
		Date: now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&Record{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		if rec.ID <= maxID {
			rec.ID = maxID + 1
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	s.Logger.Info().Int64("id", rec.ID).Str("name", name).Int("bytes", len(data)).Msg("image saved")
	return rec, nil
}

// List returns every record without image data, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	err := s.DB.WithContext(ctx).Model(&Record{}).
		Select("id, name, type, date, length(data) AS size").
		Order("date DESC, id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return out, nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := s.DB.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load image %d: %w", id, err)
	}
	return &rec, nil
}

// Delete removes the record with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res := s.DB.WithContext(ctx).Delete(&Record{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.Logger.Info().Int64("id", id).Msg("image deleted")
	return nil
}

// Fetch implements image.Source; the handle is the decimal record id.
func (s *Store) Fetch(ctx context.Context, handle string) (string, []byte, error) {
	id, err := ParseID(handle)
	if err != nil {
		return "", nil, err
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return rec.Name, rec.Data, nil
}

// Handle returns the image.Source handle for a record id.
func Handle(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a record id handle.
func ParseID(handle string) (int64, error) {
	id, err := strconv.ParseInt(handle, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrNotFound, handle)
	}
	return id, nil
}
