// Package store is the persistence collaborator of the import pipeline,
// backed by gorm over SQLite or PostgreSQL. Every record is scoped by user.
package store

import (
	"context"
	"fmt"
	"strings"

	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/textutils"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var allModels = []interface{}{
	&models.Category{},
	&models.CreditCard{},
	&models.FamilyMember{},
	&models.Transaction{},
}

// GormStore implements the storage contract over a gorm database.
type GormStore struct {
	db     *gorm.DB
	logger logging.Logger
}

// Open connects to the database and migrates the schema.
func Open(driver, dsn string, logger logging.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db, logger)
}

// New wraps an open gorm connection and migrates the schema.
func New(db *gorm.DB, logger logging.Logger) (*GormStore, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &GormStore{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetAllCategories returns the user's catalog in insertion order.
func (s *GormStore) GetAllCategories(ctx context.Context, userID string) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("position").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return out, nil
}

// CreateCategories inserts categories for the user, assigning missing IDs.
func (s *GormStore) CreateCategories(ctx context.Context, categories []models.Category, userID string) error {
	if len(categories) == 0 {
		return nil
	}
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	for i := range categories {
		categories[i].UserID = userID
		categories[i].Position = int(existing) + i
		if categories[i].ID == "" {
			categories[i].ID = uuid.NewString()
		}
	}
	if err := s.db.WithContext(ctx).Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	return nil
}

// GetAllCreditCards returns the user's registered cards.
func (s *GormStore) GetAllCreditCards(ctx context.Context, userID string) ([]models.CreditCard, error) {
	var out []models.CreditCard
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load credit cards: %w", err)
	}
	return out, nil
}

// CreateCreditCard registers a card for the user.
func (s *GormStore) CreateCreditCard(ctx context.Context, card models.CreditCard, userID string) (*models.CreditCard, error) {
	card.UserID = userID
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, fmt.Errorf("failed to create credit card: %w", err)
	}
	return &card, nil
}

// GetAllFamilyMembers returns the user's family members.
func (s *GormStore) GetAllFamilyMembers(ctx context.Context, userID string) ([]models.FamilyMember, error) {
	var out []models.FamilyMember
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load family members: %w", err)
	}
	return out, nil
}

// FindFamilyMemberByName returns the first member whose name contains name,
// ignoring case and diacritics, or nil when there is none. Matching happens
// here rather than in SQL because SQLite's LOWER only folds ASCII.
func (s *GormStore) FindFamilyMemberByName(ctx context.Context, userID, name string) (*models.FamilyMember, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	members, err := s.GetAllFamilyMembers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find family member: %w", err)
	}
	for i := range members {
		if textutils.ContainsFold(members[i].Name, name) {
			return &members[i], nil
		}
	}
	return nil, nil
}

// CreateFamilyMember stores a new member for the user.
func (s *GormStore) CreateFamilyMember(ctx context.Context, member models.FamilyMember, userID string) (*models.FamilyMember, error) {
	member.UserID = userID
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}
	s.logger.Debug("Family member created",
		logging.F(logging.FieldHolder, member.Name),
		logging.F(logging.FieldUserID, userID))
	return &member, nil
}

// BatchCreateTransactions inserts all transactions in one database
// transaction, assigning IDs to those without one.
func (s *GormStore) BatchCreateTransactions(ctx context.Context, txs []models.Transaction, userID string) ([]models.Transaction, error) {
	if len(txs) == 0 {
		return []models.Transaction{}, nil
	}
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		out[i].UserID = userID
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&out, 100).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	s.logger.Info("Transactions saved",
		logging.F(logging.FieldCount, len(out)),
		logging.F(logging.FieldUserID, userID))
	return out, nil
}

// GetTransactions returns the user's transactions ordered by date.
func (s *GormStore) GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("date").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return out, nil
}
