package store

import (
	"context"
	"sync"

	"fjacquet/agri-potential/internal/models"
)

// MockStore is an in-memory stand-in for Store used by stage tests. Read
// methods return the canned slices; write methods record what they receive.
type MockStore struct {
	mu sync.Mutex

	Aggregates []models.AggregatedBeneficiary
	Customers  []models.DirectoryEntry
	Accepted   []models.MatchedCustomer
	Snapshots  []models.PotentialSnapshot

	Payments        []models.PaymentRecord
	Matches         []models.CustomerMatch
	Potentials      map[string]CustomerPotential
	UpsertedEntries []models.Customer

	// Error flags for testing error conditions
	AppendPaymentError    error
	AppendPaymentFailAt   int
	DeletePaymentsError   error
	AggregateError        error
	ListCustomersError    error
	UpsertMatchError      error
	ListMatchesError      error
	ListAcceptedError     error
	ReplaceSnapshotsError error
	ListSnapshotsError    error
	UpdatePotentialError  error
	UpsertCustomerError   error
}

// AppendPayment records the payment. When AppendPaymentFailAt is positive the
// error is only returned for that call number.
func (m *MockStore) AppendPayment(_ context.Context, record *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendPaymentError != nil &&
		(m.AppendPaymentFailAt <= 0 || len(m.Payments)+1 == m.AppendPaymentFailAt) {
		return m.AppendPaymentError
	}
	m.Payments = append(m.Payments, *record)
	return nil
}

// DeletePayments drops the recorded payments of the year (and batch).
func (m *MockStore) DeletePayments(_ context.Context, year int, batchID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeletePaymentsError != nil {
		return 0, m.DeletePaymentsError
	}
	kept := m.Payments[:0]
	var deleted int64
	for _, p := range m.Payments {
		if p.ReferenceYear == year && (batchID == "" || p.BatchID == batchID) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	m.Payments = kept
	return deleted, nil
}

// AggregateBeneficiaries returns the canned aggregates of the year.
func (m *MockStore) AggregateBeneficiaries(_ context.Context, year int) ([]models.AggregatedBeneficiary, error) {
	if m.AggregateError != nil {
		return nil, m.AggregateError
	}
	var rows []models.AggregatedBeneficiary
	for _, a := range m.Aggregates {
		if a.ReferenceYear == year {
			rows = append(rows, a)
		}
	}
	return rows, nil
}

// ListActiveCustomers returns the canned directory.
func (m *MockStore) ListActiveCustomers(_ context.Context) ([]models.DirectoryEntry, error) {
	if m.ListCustomersError != nil {
		return nil, m.ListCustomersError
	}
	return append([]models.DirectoryEntry(nil), m.Customers...), nil
}

// UpsertCustomer records the customer.
func (m *MockStore) UpsertCustomer(_ context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertCustomerError != nil {
		return m.UpsertCustomerError
	}
	m.UpsertedEntries = append(m.UpsertedEntries, *customer)
	return nil
}

// UpsertMatch replaces any recorded match with the same year and customer.
func (m *MockStore) UpsertMatch(_ context.Context, match *models.CustomerMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertMatchError != nil {
		return m.UpsertMatchError
	}
	for i := range m.Matches {
		if m.Matches[i].ReferenceYear == match.ReferenceYear && m.Matches[i].CustomerID == match.CustomerID {
			m.Matches[i] = *match
			return nil
		}
	}
	m.Matches = append(m.Matches, *match)
	return nil
}

// ListMatches returns the recorded matches of the year.
func (m *MockStore) ListMatches(_ context.Context, year int) ([]models.CustomerMatch, error) {
	if m.ListMatchesError != nil {
		return nil, m.ListMatchesError
	}
	var rows []models.CustomerMatch
	for _, match := range m.Matches {
		if match.ReferenceYear == year {
			rows = append(rows, match)
		}
	}
	return rows, nil
}

// ListAcceptedMatches returns the canned accepted matches.
func (m *MockStore) ListAcceptedMatches(_ context.Context, _ int) ([]models.MatchedCustomer, error) {
	if m.ListAcceptedError != nil {
		return nil, m.ListAcceptedError
	}
	return append([]models.MatchedCustomer(nil), m.Accepted...), nil
}

// ReplaceSnapshots swaps the recorded snapshots of the year.
func (m *MockStore) ReplaceSnapshots(_ context.Context, year int, snapshots []models.PotentialSnapshot) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceSnapshotsError != nil {
		return 0, m.ReplaceSnapshotsError
	}
	kept := m.Snapshots[:0]
	var deleted int64
	for _, s := range m.Snapshots {
		if s.ReferenceYear == year {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	m.Snapshots = append(kept, snapshots...)
	return deleted, nil
}

// ListSnapshots returns the recorded snapshots of the year.
func (m *MockStore) ListSnapshots(_ context.Context, year int) ([]models.PotentialSnapshot, error) {
	if m.ListSnapshotsError != nil {
		return nil, m.ListSnapshotsError
	}
	var rows []models.PotentialSnapshot
	for _, s := range m.Snapshots {
		if s.ReferenceYear == year {
			rows = append(rows, s)
		}
	}
	return rows, nil
}

// UpdateCustomerPotential records the potential. Customers missing from the
// canned directory report false.
func (m *MockStore) UpdateCustomerPotential(_ context.Context, customerID string, p CustomerPotential) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdatePotentialError != nil {
		return false, m.UpdatePotentialError
	}
	found := false
	for _, c := range m.Customers {
		if c.ID == customerID {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	if m.Potentials == nil {
		m.Potentials = make(map[string]CustomerPotential)
	}
	m.Potentials[customerID] = p
	return true, nil
}
