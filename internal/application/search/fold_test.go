package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/billmaker-api/internal/application/search"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe nandu", search.Fold("  Café Ñandú "))
	assert.Equal(t, "sri ganesh traders", search.Fold("ŚRĪ Ganesh Traders"))
}

func TestMatches(t *testing.T) {
	assert.True(t, search.Matches("", "cualquiera"))
	assert.True(t, search.Matches("cafe", "Ramesh", "Café Coffee Day"))
	assert.True(t, search.Matches("CUST-0001", "CUST-0001"))
	assert.False(t, search.Matches("tea", "Coffee", ""))
}
