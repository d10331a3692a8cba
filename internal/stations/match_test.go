package stations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Downtown Fast Charge", "downtown"))
	assert.True(t, containsFold("downtown", "DOWNTOWN"))
	assert.True(t, containsFold("anything", ""))
	assert.False(t, containsFold("", "downtown"))
	assert.False(t, containsFold("Metrotown", "downtown"))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("georgia", "1055 W Georgia St", "Vancouver"))
	assert.False(t, matchesAny("georgia", "Kingsway", "Burnaby"))
	assert.False(t, matchesAny("georgia"))
}
