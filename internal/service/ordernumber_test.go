package service_test

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"testing"
	"time"

	"github.com/SergeyBogomolovv/checkout-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumberGenerator_Generate(t *testing.T) {
	now := func() time.Time { return time.UnixMilli(1700000000123) }

	t.Run("deterministic source", func(t *testing.T) {
		// 0..5 map to A..F, 255 is rejected
		src := bytes.NewReader([]byte{0, 255, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11})
		gen := service.NewOrderNumberGeneratorWith(now, src)

		got, err := gen.Generate()
		require.NoError(t, err)
		assert.Equal(t, "ORD-1700000000123-ABCDEF", got)
	})

	t.Run("format", func(t *testing.T) {
		gen := service.NewOrderNumberGeneratorWith(now, rand.Reader)
		pattern := regexp.MustCompile(`^ORD-1700000000123-[A-Z0-9]{6}$`)

		for range 100 {
			got, err := gen.Generate()
			require.NoError(t, err)
			assert.Regexp(t, pattern, got)
		}
	})

	t.Run("exhausted source", func(t *testing.T) {
		gen := service.NewOrderNumberGeneratorWith(now, bytes.NewReader([]byte{1, 2}))

		_, err := gen.Generate()
		assert.Error(t, err)
	})
}
