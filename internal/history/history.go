package history

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	linehistory "github.com/robottwo/bishline/pkg/history"
)

// Store keeps accepted lines in a SQLite database so that later sessions
// can load them. Every line is tagged with the session that entered it.
type Store struct {
	db        *gorm.DB
	sessionID string
}

type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Line      string `gorm:"index"`
	SessionID string `gorm:"index"`
}

func Open(dbFilePath string) (*Store, error) {
	// busy_timeout covers a second session writing at the same moment
	connectionString := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=synchronous(1)&_pragma=temp_store(2)", dbFilePath)

	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite serializes writes anyway
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Store{db: db, sessionID: uuid.NewString()}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Record stores line under the current session.
func (s *Store) Record(line string) (*Entry, error) {
	entry := Entry{Line: line, SessionID: s.sessionID}
	if result := s.db.Create(&entry); result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// Recent returns up to limit of the newest entries, oldest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	result := s.db.Order("created_at desc, id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return lo.Reverse(entries), nil
}

// RecentByPrefix returns up to limit of the newest entries starting with
// prefix, newest first.
func (s *Store) RecentByPrefix(prefix string, limit int) ([]Entry, error) {
	var entries []Entry
	result := s.db.Where("line LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func escapeLike(s string) string {
	var out []rune
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func (s *Store) Delete(id uint) error {
	result := s.db.Delete(&Entry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no history entry found with id %d", id)
	}
	return nil
}

func (s *Store) Reset() error {
	return s.db.Exec("DELETE FROM entries").Error
}

// LoadInto adds the newest limit lines to h, oldest first, and returns how
// many were added.
func (s *Store) LoadInto(h linehistory.History, limit int) (int, error) {
	entries, err := s.Recent(limit)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		h.Add(e.Line)
	}
	h.MoveToEnd()
	return len(entries), nil
}
