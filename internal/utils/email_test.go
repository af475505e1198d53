package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "so*****@example.com", MaskEmail("someone@example.com"))
	assert.Equal(t, "a@b.com", MaskEmail("a@b.com"))
	assert.Equal(t, "ab@b.com", MaskEmail("ab@b.com"))
	assert.Equal(t, "not-an-email", MaskEmail("not-an-email"))
}
