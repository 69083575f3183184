package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	valid := []string{"+91-9876543210", "9876543210", "+1 (415) 555-0100", "040 2345678"}
	for _, p := range valid {
		assert.True(t, Phone(p), "expected %q to be accepted", p)
	}

	invalid := []string{"", "not-a-phone!!", "12345", "+91 98765 43210 98765", "98765x43210"}
	for _, p := range invalid {
		assert.False(t, Phone(p), "expected %q to be rejected", p)
	}
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("asha.verma@example.com"))
	assert.False(t, Email("not-an-address"))
	assert.False(t, Email(""))
}
