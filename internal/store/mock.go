package store

import (
	"context"
	"strings"
	"sync"

	"fintracker/internal/models"
	"fintracker/internal/textutils"

	"github.com/google/uuid"
)

// MockStore is an in-memory implementation of the storage contract for
// testing. It is safe for concurrent use.
type MockStore struct {
	Categories    []models.Category
	CreditCards   []models.CreditCard
	FamilyMembers []models.FamilyMember
	Transactions  []models.Transaction

	// Error fields for testing error conditions
	GetCategoriesError      error
	GetCreditCardsError     error
	FindFamilyMemberError   error
	CreateFamilyMemberError error
	BatchCreateError        error

	mu            sync.Mutex
	cardLoads     int
	memberCreates int
}

func (m *MockStore) GetAllCategories(_ context.Context, _ string) ([]models.Category, error) {
	if m.GetCategoriesError != nil {
		return nil, m.GetCategoriesError
	}
	return m.Categories, nil
}

func (m *MockStore) GetAllCreditCards(_ context.Context, _ string) ([]models.CreditCard, error) {
	m.mu.Lock()
	m.cardLoads++
	m.mu.Unlock()
	if m.GetCreditCardsError != nil {
		return nil, m.GetCreditCardsError
	}
	return m.CreditCards, nil
}

func (m *MockStore) GetAllFamilyMembers(_ context.Context, _ string) ([]models.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FamilyMember(nil), m.FamilyMembers...), nil
}

func (m *MockStore) FindFamilyMemberByName(_ context.Context, _ string, name string) (*models.FamilyMember, error) {
	if m.FindFamilyMemberError != nil {
		return nil, m.FindFamilyMemberError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.TrimSpace(name)
	for _, fm := range m.FamilyMembers {
		if needle != "" && textutils.ContainsFold(fm.Name, needle) {
			found := fm
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockStore) CreateFamilyMember(_ context.Context, member models.FamilyMember, userID string) (*models.FamilyMember, error) {
	if m.CreateFamilyMemberError != nil {
		return nil, m.CreateFamilyMemberError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	member.UserID = userID
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	m.FamilyMembers = append(m.FamilyMembers, member)
	m.memberCreates++
	return &member, nil
}

func (m *MockStore) BatchCreateTransactions(_ context.Context, txs []models.Transaction, userID string) ([]models.Transaction, error) {
	if m.BatchCreateError != nil {
		return nil, m.BatchCreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		tx.UserID = userID
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		out[i] = tx
	}
	m.Transactions = append(m.Transactions, out...)
	return out, nil
}

// CardLoads returns how many times the card list was fetched.
func (m *MockStore) CardLoads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cardLoads
}

// MemberCreates returns how many family members were created.
func (m *MockStore) MemberCreates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.memberCreates
}
