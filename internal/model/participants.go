package model

// AddParticipant appends p unless an equal pair is already present.
func AddParticipant(list []Participant, p Participant) []Participant {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}

// RemoveParticipant drops every pair equal to p.
func RemoveParticipant(list []Participant, p Participant) []Participant {
	out := make([]Participant, 0, len(list))
	for _, existing := range list {
		if existing != p {
			out = append(out, existing)
		}
	}
	return out
}
