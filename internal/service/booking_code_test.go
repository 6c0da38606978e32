package service

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^TIX-\d{14}-[23456789ABCDEFGHJKMNPQRSTUVWXYZ]{6}$`)

func TestGenerateBookingCodeFormat(t *testing.T) {
	now := time.Date(2026, 1, 31, 20, 30, 0, 0, time.UTC)
	code := GenerateBookingCode(now)
	require.Regexp(t, codePattern, code)
	assert.True(t, strings.HasPrefix(code, "TIX-20260131203000-"))
}

func TestGenerateBookingCodeUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2026, 1, 31, 23, 30, 0, 0, loc)
	code := GenerateBookingCode(now)
	assert.True(t, strings.HasPrefix(code, "TIX-20260131203000-"), code)
}

func TestGenerateBookingCodeCollisionResistance(t *testing.T) {
	now := time.Date(2026, 1, 31, 20, 30, 0, 0, time.UTC)

	var mu sync.Mutex
	seen := make(map[string]struct{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				code := GenerateBookingCode(now)
				mu.Lock()
				seen[code] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// 31^6 suffixes make 1000 draws collide with probability well under
	// a millionth of a percent; anything short of near-total uniqueness
	// indicates a broken suffix.
	assert.Greater(t, len(seen), 990)
}
