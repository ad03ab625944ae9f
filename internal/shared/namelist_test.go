package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinNamesDropsEmptyEntries(t *testing.T) {
	assert.Equal(t, "Floor Mats,Roof Rack", JoinNames([]string{" Floor Mats ", "", "Roof Rack", "  "}))
	assert.Equal(t, "", JoinNames(nil))
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"Floor Mats", "Roof Rack"}, SplitNames("Floor Mats, Roof Rack"))
	assert.Nil(t, SplitNames("   "))
	assert.Nil(t, SplitNames(""))
	assert.Equal(t, []string{"A"}, SplitNames(",,A,,"))
}

func TestNameListRoundTrip(t *testing.T) {
	original := []string{"Seat Covers", "Dash Cam", "Mud Flaps"}
	joined := JoinNames(original)
	assert.Equal(t, original, SplitNames(joined))

	// Already-clean lists survive a second round-trip unchanged.
	assert.Equal(t, joined, JoinNames(SplitNames(joined)))
}
