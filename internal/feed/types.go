package feed

import "strings"

// Collection names the stored document sets listeners can watch.
type Collection string

const (
	Users                     Collection = "users"
	Sports                    Collection = "sports"
	Reviews                   Collection = "reviews"
	PlaygroundReservations    Collection = "playgroundReservations"
	PlaygroundSports          Collection = "playgroundSports"
	Equipments                Collection = "equipments"
	ReservationSlots          Collection = "reservationSlots"
	EquipmentReservationSlots Collection = "equipmentReservationSlots"
	Notifications             Collection = "notifications"
)

// Topic is a collection, optionally narrowed to one key. The key is a document id
// or, for slot collections, the reservation or playground id the records belong to.
// A topic without key matches every change in the collection.
type Topic struct {
	Collection Collection
	Key        string
}

// All watches every change in c.
func All(c Collection) Topic { return Topic{Collection: c} }

// Doc watches the changes of c under key.
func Doc(c Collection, key string) Topic { return Topic{Collection: c, Key: key} }

// Matches reports whether a published topic p must wake a subscriber of t.
func (t Topic) Matches(p Topic) bool {
	if t.Collection != p.Collection {
		return false
	}
	return t.Key == "" || p.Key == "" || t.Key == p.Key
}

func (t Topic) String() string {
	if t.Key == "" {
		return string(t.Collection)
	}
	return string(t.Collection) + "/" + t.Key
}

// ParseTopic is the inverse of Topic.String.
func ParseTopic(s string) Topic {
	collection, key, _ := strings.Cut(s, "/")
	return Topic{Collection: Collection(collection), Key: key}
}
