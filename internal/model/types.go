package model

import "time"

// Level is a user's self-assessed proficiency in a sport.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
	LevelPro          Level = "pro"
)

// Achievement is a milestone derived from a user's past reservations.
type Achievement string

const (
	AtLeastOneSport          Achievement = "AT_LEAST_ONE_SPORT"
	AtLeastFiveSports        Achievement = "AT_LEAST_FIVE_SPORTS"
	AllSports                Achievement = "ALL_SPORTS"
	AtLeastThreeMatches      Achievement = "AT_LEAST_THREE_MATCHES"
	AtLeastTenMatches        Achievement = "AT_LEAST_TEN_MATCHES"
	AtLeastTwentyFiveMatches Achievement = "AT_LEAST_TWENTY_FIVE_MATCHES"
)

// SportLevel pairs a sport with the user's level in it.
type SportLevel struct {
	SportID   string `json:"sport_id"`
	SportName string `json:"sport_name"`
	Level     Level  `json:"level"`
}

// User is a registered SportApp user.
type User struct {
	ID                 string               `json:"id"`
	FirstName          string               `json:"first_name"`
	LastName           string               `json:"last_name"`
	Username           string               `json:"username"`
	Gender             string               `json:"gender"`
	Age                int                  `json:"age"`
	Location           string               `json:"location"`
	Bio                string               `json:"bio"`
	SportLevels        []SportLevel         `json:"sport_levels"`
	Achievements       map[Achievement]bool `json:"achievements"`
	ImageURL           *string              `json:"image_url,omitempty"`
	NotificationsToken *string              `json:"-"`
}

// Participant is the denormalized {id, username} pair stored on reservations.
type Participant struct {
	ID       string `json:"id" msgpack:"id"`
	Username string `json:"username" msgpack:"username"`
}

// Sport is a static catalog entry.
type Sport struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	MaxPlayers int    `json:"max_players"`
}

// PrintWithEmoji renders the sport name with its emoji on the chosen side.
func (s Sport) PrintWithEmoji(onTheLeft bool) string {
	if onTheLeft {
		return s.Emoji + "  " + s.Name
	}
	return s.Name + "  " + s.Emoji
}

func (s Sport) String() string {
	return s.PrintWithEmoji(false)
}

// SportCenter is embedded in every playground document.
type SportCenter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	OpeningHours string `json:"opening_hours"`
	ClosingHours string `json:"closing_hours"`
}

// PlaygroundSport is one playground of a sport center, offering one sport.
type PlaygroundSport struct {
	ID             string      `json:"id"`
	PlaygroundName string      `json:"playground_name"`
	SportID        string      `json:"sport_id"`
	SportName      string      `json:"sport_name"`
	SportEmoji     string      `json:"sport_emoji"`
	SportCenter    SportCenter `json:"sport_center"`
	PricePerHour   float64     `json:"price_per_hour"`
	MaxPlayers     int         `json:"max_players"`
}

// DetailedPlaygroundSport is the list view of a playground.
type DetailedPlaygroundSport struct {
	PlaygroundID    string  `json:"playground_id"`
	PlaygroundName  string  `json:"playground_name"`
	SportID         string  `json:"sport_id"`
	SportName       string  `json:"sport_name"`
	SportEmoji      string  `json:"sport_emoji"`
	SportCenterID   string  `json:"sport_center_id"`
	SportCenterName string  `json:"sport_center_name"`
	Address         string  `json:"address"`
	OpeningHours    string  `json:"opening_hours"`
	ClosingHours    string  `json:"closing_hours"`
	PricePerHour    float64 `json:"price_per_hour"`
}

// Detailed converts the playground to its list view.
func (p PlaygroundSport) Detailed() DetailedPlaygroundSport {
	return DetailedPlaygroundSport{
		PlaygroundID:    p.ID,
		PlaygroundName:  p.PlaygroundName,
		SportID:         p.SportID,
		SportName:       p.SportName,
		SportEmoji:      p.SportEmoji,
		SportCenterID:   p.SportCenter.ID,
		SportCenterName: p.SportCenter.Name,
		Address:         p.SportCenter.Address,
		OpeningHours:    p.SportCenter.OpeningHours,
		ClosingHours:    p.SportCenter.ClosingHours,
		PricePerHour:    p.PricePerHour,
	}
}

// Equipment belongs to a (sport, sport center) pair. Availability is computed per
// query and never stored.
type Equipment struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SportID       string  `json:"sport_id"`
	SportCenterID string  `json:"sport_center_id"`
	UnitPrice     float64 `json:"unit_price"`
	MaxQuantity   int     `json:"max_quantity"`
	Availability  int     `json:"availability"`
}

// SelectedEquipment is a requested quantity of one equipment.
type SelectedEquipment struct {
	EquipmentID      string `json:"equipment_id"`
	SelectedQuantity int    `json:"selected_quantity"`
}

// NewReservation is a write request. A nil ID creates a reservation, a non-nil ID
// updates it.
type NewReservation struct {
	ID                 *string             `json:"id,omitempty"`
	PlaygroundID       string              `json:"playground_id"`
	SportID            string              `json:"sport_id"`
	SportCenterID      string              `json:"sport_center_id"`
	StartTime          time.Time           `json:"start_time"`
	EndTime            time.Time           `json:"end_time"`
	SelectedEquipments []SelectedEquipment `json:"selected_equipments"`
}

// PlaygroundReservation is the reservation root document.
type PlaygroundReservation struct {
	ID            string        `json:"id"`
	User          Participant   `json:"user"`
	PlaygroundID  string        `json:"playground_id"`
	SportID       string        `json:"sport_id"`
	SportCenterID string        `json:"sport_center_id"`
	StartDateTime string        `json:"start_date_time"`
	EndDateTime   string        `json:"end_date_time"`
	Timestamp     string        `json:"timestamp"`
	TotalPrice    float64       `json:"total_price"`
	Participants  []Participant `json:"participants"`
}

// EquipmentReservation is the equipment footprint of a reservation.
type EquipmentReservation struct {
	EquipmentID      string  `json:"equipment_id"`
	EquipmentName    string  `json:"equipment_name"`
	UnitPrice        float64 `json:"unit_price"`
	SelectedQuantity int     `json:"selected_quantity"`
	TotalPrice       float64 `json:"total_price"`
}

// DetailedReservation joins a reservation root with its playground and equipment.
type DetailedReservation struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Username        string                 `json:"username"`
	PlaygroundID    string                 `json:"playground_id"`
	PlaygroundName  string                 `json:"playground_name"`
	SportID         string                 `json:"sport_id"`
	SportName       string                 `json:"sport_name"`
	SportEmoji      string                 `json:"sport_emoji"`
	SportCenterID   string                 `json:"sport_center_id"`
	SportCenterName string                 `json:"sport_center_name"`
	Location        string                 `json:"location"`
	StartDateTime   string                 `json:"start_date_time"`
	EndDateTime     string                 `json:"end_date_time"`
	Date            string                 `json:"date"`
	StartTime       string                 `json:"start_time"`
	EndTime         string                 `json:"end_time"`
	TotalPrice      float64                `json:"total_price"`
	Participants    []Participant          `json:"participants"`
	Equipments      []EquipmentReservation `json:"equipments"`
}

// ReservationSlot is the per-slot occupancy record of a playground.
type ReservationSlot struct {
	ID                 string   `json:"id"`
	ReservationID      string   `json:"reservation_id"`
	PlaygroundID       string   `json:"playground_id"`
	SportID            string   `json:"sport_id"`
	StartSlot          string   `json:"start_slot"`
	EndSlot            string   `json:"end_slot"`
	OpenPlaygroundsIDs []string `json:"open_playgrounds_ids"`
}

// EquipmentSnapshot is the copy of an equipment taken when a slot is written.
type EquipmentSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	MaxQuantity int     `json:"max_quantity"`
}

// EquipmentReservationSlot is the per-slot occupancy record of one equipment.
type EquipmentReservationSlot struct {
	ID                      string            `json:"id"`
	PlaygroundReservationID string            `json:"playground_reservation_id"`
	PlaygroundID            string            `json:"playground_id"`
	SportID                 string            `json:"sport_id"`
	SportCenterID           string            `json:"sport_center_id"`
	Equipment               EquipmentSnapshot `json:"equipment"`
	SelectedQuantity        int               `json:"selected_quantity"`
	StartSlot               string            `json:"start_slot"`
	EndSlot                 string            `json:"end_slot"`
}

// NotificationStatus is the state of an invitation.
type NotificationStatus string

const (
	StatusPending  NotificationStatus = "PENDING"
	StatusAccepted NotificationStatus = "ACCEPTED"
	StatusRejected NotificationStatus = "REJECTED"
	StatusCanceled NotificationStatus = "CANCELED"
)

// Valid reports whether s is a known status.
func (s NotificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// NotificationType distinguishes notification kinds.
type NotificationType string

const TypeInvitation NotificationType = "INVITATION"

// Notification is an invitation addressed to a receiver.
type Notification struct {
	ID            string             `json:"id"`
	Type          NotificationType   `json:"type"`
	SenderUID     string             `json:"sender_uid"`
	ReceiverUID   string             `json:"receiver_uid"`
	ReservationID string             `json:"reservation_id"`
	Description   string             `json:"description"`
	Timestamp     string             `json:"timestamp"`
	Status        NotificationStatus `json:"status"`
	ProfileURL    *string            `json:"profile_url,omitempty"`
}

// Review is a user's rating of a playground.
type Review struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	Username         string  `json:"username"`
	PlaygroundID     string  `json:"playground_id"`
	Title            string  `json:"title"`
	Text             string  `json:"text"`
	QualityRating    float64 `json:"quality_rating"`
	FacilitiesRating float64 `json:"facilities_rating"`
	PublicationDate  string  `json:"publication_date"`
	LastUpdate       string  `json:"last_update"`
}

// PlaygroundInfo is a playground together with its reviews and averaged ratings.
type PlaygroundInfo struct {
	PlaygroundSport
	Reviews                 []Review `json:"reviews"`
	OverallQualityRating    float64  `json:"overall_quality_rating"`
	OverallFacilitiesRating float64  `json:"overall_facilities_rating"`
	OverallRating           float64  `json:"overall_rating"`
}

// NewPlaygroundInfo averages the ratings of the given reviews.
func NewPlaygroundInfo(p PlaygroundSport, reviews []Review) PlaygroundInfo {
	info := PlaygroundInfo{PlaygroundSport: p, Reviews: reviews}
	if info.Reviews == nil {
		info.Reviews = []Review{}
	}
	if len(reviews) == 0 {
		return info
	}
	var quality, facilities float64
	for _, r := range reviews {
		quality += r.QualityRating
		facilities += r.FacilitiesRating
	}
	n := float64(len(reviews))
	info.OverallQualityRating = quality / n
	info.OverallFacilitiesRating = facilities / n
	info.OverallRating = (info.OverallQualityRating + info.OverallFacilitiesRating) / 2
	return info
}
