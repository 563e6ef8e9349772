package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemoCatalog(t *testing.T) {
	sports, playgrounds, equipments := demoCatalog()
	assert.Len(t, sports, 3)
	assert.Len(t, playgrounds, 8)
	assert.Len(t, equipments, 8)

	ids := map[string]bool{}
	for _, p := range playgrounds {
		assert.False(t, ids[p.ID], "duplicate playground id %s", p.ID)
		ids[p.ID] = true
		assert.NotEmpty(t, p.SportCenter.OpeningHours)
	}
	for _, e := range equipments {
		assert.Positive(t, e.MaxQuantity, e.ID)
	}
}
