package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "919876543210", Digits("+91 98765-43210"))
	assert.Equal(t, "", Digits("n/a"))
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/919876543210?text=Hi+there%21+%26+welcome", Link("+91 (987) 654-3210", "Hi there! & welcome"))
	assert.Equal(t, "https://wa.me/15551234567", Link("1-555-123-4567", ""))
	assert.Equal(t, "https://wa.me/?text=hello", Link("", "hello"))
}
