package randomgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContact expects that every generated contact passes the validation of new contacts.
func TestContact(t *testing.T) {
	for i := 0; i < 100; i++ {
		in := Contact("run42")
		require.NoError(t, in.Validate(), in)
		assert.Contains(t, in.Email, ".run42@")
		assert.NotContains(t, in.Email, "ä")
	}
}

func TestPickBirthday(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := PickBirthday()
		assert.GreaterOrEqual(t, d.Year, 1930)
		assert.Less(t, d.Year, 2010)
	}
}

func TestPickNames(t *testing.T) {
	assert.Contains(t, firstNames, PickFirstName())
	assert.Contains(t, lastNames, PickLastName())
}
