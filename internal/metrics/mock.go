package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	reservationsSaved   int
	reservationsDeleted int
	slotConflicts       int
	equipmentConflicts  int
	writeDurations      []float64
	invitationsSent     int
	transitions         map[string]int
	pushSent            int
	pushFailed          int
	slackNotifSent      int
	slackNotifFailed    int
	activeListeners     int
	startupTime         float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		writeDurations: make([]float64, 0),
		transitions:    make(map[string]int),
	}
}

func (m *Mock) IncReservationsSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservationsSaved++
}

func (m *Mock) IncReservationsDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservationsDeleted++
}

func (m *Mock) IncSlotConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slotConflicts++
}

func (m *Mock) IncEquipmentConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equipmentConflicts++
}

func (m *Mock) ObserveWriteDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeDurations = append(m.writeDurations, duration)
}

func (m *Mock) IncInvitationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitationsSent++
}

func (m *Mock) IncInvitationTransitions(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[to]++
}

func (m *Mock) IncPushSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushSent++
}

func (m *Mock) IncPushFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushFailed++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetActiveListeners(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeListeners = n
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ReservationsSaved returns the number of times IncReservationsSaved was called.
func (m *Mock) ReservationsSaved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservationsSaved
}

// ReservationsDeleted returns the number of times IncReservationsDeleted was called.
func (m *Mock) ReservationsDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservationsDeleted
}

// SlotConflicts returns the number of times IncSlotConflicts was called.
func (m *Mock) SlotConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotConflicts
}

// EquipmentConflicts returns the number of times IncEquipmentConflicts was called.
func (m *Mock) EquipmentConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.equipmentConflicts
}

// WriteDurations returns the observed write durations.
func (m *Mock) WriteDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.writeDurations...)
}

// InvitationsSent returns the number of times IncInvitationsSent was called.
func (m *Mock) InvitationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invitationsSent
}

// InvitationTransitions returns how many transitions to status were recorded.
func (m *Mock) InvitationTransitions(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[status]
}

// PushSent returns the number of times IncPushSent was called.
func (m *Mock) PushSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushSent
}

// PushFailed returns the number of times IncPushFailed was called.
func (m *Mock) PushFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushFailed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// ActiveListeners returns the last value passed to SetActiveListeners.
func (m *Mock) ActiveListeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeListeners
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
