package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "full_name", NormalizeKey("Full Name"))
	assert.Equal(t, "e_mail", NormalizeKey("  E-Mail "))
	assert.Equal(t, "phone_number", NormalizeKey("Phone\t Number"))
	assert.Equal(t, "status", NormalizeKey("STATUS"))
	assert.Equal(t, "", NormalizeKey("   "))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "971501234567", DigitsOnly("+971 50 123 4567"))
	assert.Equal(t, "971501234567", DigitsOnly("971-501-234-567"))
	assert.Equal(t, "", DigitsOnly("no digits"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"villa", "waterfront"}, SplitList("villa, waterfront"))
	assert.Equal(t, []string{"villa", "waterfront"}, SplitList("villa; waterfront"))
	assert.Equal(t, []string{"email", "whatsapp"}, SplitList("email|whatsapp"))
	assert.Equal(t, []string{"one"}, SplitList(" one ,, "))
	assert.Nil(t, SplitList(""))
}
