package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendReservationSavedFunc   func(r Reservation, dryRun bool) error
	SendReservationDeletedFunc func(r Reservation, dryRun bool) error

	// Call records
	SendReservationSavedCalls   []Reservation
	SendReservationDeletedCalls []Reservation
	SendInvitationAnsweredCalls []InvitationAnswer
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReservationSavedCalls = nil
	m.SendReservationDeletedCalls = nil
	m.SendInvitationAnsweredCalls = nil
}

func (m *Mock) SendReservationSaved(r Reservation, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReservationSavedCalls = append(m.SendReservationSavedCalls, r)
	if m.SendReservationSavedFunc != nil {
		return m.SendReservationSavedFunc(r, dryRun)
	}
	return nil
}

func (m *Mock) SendReservationDeleted(r Reservation, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendReservationDeletedCalls = append(m.SendReservationDeletedCalls, r)
	if m.SendReservationDeletedFunc != nil {
		return m.SendReservationDeletedFunc(r, dryRun)
	}
	return nil
}

func (m *Mock) SendInvitationAnswered(a InvitationAnswer, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendInvitationAnsweredCalls = append(m.SendInvitationAnsweredCalls, a)
	return nil
}
