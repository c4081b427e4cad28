package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	t.Run("From Mid Week", func(t *testing.T) {
		wednesday := time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(wednesday))
	})

	t.Run("From Sunday", func(t *testing.T) {
		// Воскресенье относится к предыдущему понедельнику
		sunday := time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))
	})

	t.Run("Monday Is Idempotent", func(t *testing.T) {
		monday := time.Date(2024, 6, 3, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), StartOfWeek(monday))
	})
}

func TestIsMonday(t *testing.T) {
	assert.True(t, IsMonday(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsMonday(time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)))
}
