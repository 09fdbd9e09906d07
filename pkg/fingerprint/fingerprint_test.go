package fingerprint_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdayhq/authkit/pkg/fingerprint"
)

const testSecret = "test-fingerprint-secret"

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("deterministic for identical requests", func(t *testing.T) {
		t.Parallel()

		r1 := httptest.NewRequest("GET", "/", nil)
		r1.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
		r1.Header.Set("Accept-Language", "en-US,en;q=0.9")

		r2 := httptest.NewRequest("GET", "/", nil)
		r2.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")
		r2.Header.Set("Accept-Language", "en-US,en;q=0.9")

		assert.Equal(t, fingerprint.Generate(r1, testSecret), fingerprint.Generate(r2, testSecret))
	})

	t.Run("different user agent changes fingerprint", func(t *testing.T) {
		t.Parallel()

		r1 := httptest.NewRequest("GET", "/", nil)
		r1.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

		r2 := httptest.NewRequest("GET", "/", nil)
		r2.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")

		assert.NotEqual(t, fingerprint.Generate(r1, testSecret), fingerprint.Generate(r2, testSecret))
	})

	t.Run("different secret changes fingerprint", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("User-Agent", "Mozilla/5.0")

		assert.NotEqual(t, fingerprint.Generate(r, "secret-a"), fingerprint.Generate(r, "secret-b"))
	})

	t.Run("has versioned format", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		fp := fingerprint.Generate(r, testSecret)

		assert.True(t, strings.HasPrefix(fp, "v1:"))
		assert.Len(t, fp, 35)
	})

	t.Run("empty headers are valid input", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		fp := fingerprint.Generate(r, testSecret)

		assert.Len(t, fp, 35)
	})
}

func TestFromValues(t *testing.T) {
	t.Parallel()

	t.Run("matches http generation for same signals", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("User-Agent", "curl/8.5.0")
		r.Header.Set("Accept-Language", "en-GB")

		assert.Equal(t,
			fingerprint.Generate(r, testSecret),
			fingerprint.FromValues(testSecret, "curl/8.5.0", "en-GB"))
	})

	t.Run("component boundaries prevent collisions", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t,
			fingerprint.FromValues(testSecret, "ab", "c"),
			fingerprint.FromValues(testSecret, "a", "bc"))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts matching fingerprint", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("User-Agent", "Mozilla/5.0")
		stored := fingerprint.Generate(r, testSecret)

		require.NoError(t, fingerprint.Validate(r, testSecret, stored))
	})

	t.Run("rejects different device", func(t *testing.T) {
		t.Parallel()

		deviceA := httptest.NewRequest("GET", "/", nil)
		deviceA.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh)")
		stored := fingerprint.Generate(deviceA, testSecret)

		deviceC := httptest.NewRequest("GET", "/", nil)
		deviceC.Header.Set("User-Agent", "python-requests/2.31")

		err := fingerprint.Validate(deviceC, testSecret, stored)
		assert.ErrorIs(t, err, fingerprint.ErrMismatch)
	})

	t.Run("rejects malformed stored fingerprint", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)

		assert.ErrorIs(t, fingerprint.Validate(r, testSecret, "garbage"), fingerprint.ErrInvalidFingerprint)
		assert.ErrorIs(t, fingerprint.Validate(r, testSecret, ""), fingerprint.ErrInvalidFingerprint)
		assert.ErrorIs(t, fingerprint.Validate(r, testSecret, "v2:0123456789abcdef0123456789abcdef"), fingerprint.ErrInvalidFingerprint)
	})

	t.Run("options must match generation options", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("User-Agent", "Mozilla/5.0")
		r.Header.Set("Accept-Encoding", "gzip, br")

		stored := fingerprint.Generate(r, testSecret, fingerprint.WithAcceptEncoding())

		require.NoError(t, fingerprint.Validate(r, testSecret, stored, fingerprint.WithAcceptEncoding()))
		assert.ErrorIs(t, fingerprint.Validate(r, testSecret, stored), fingerprint.ErrMismatch)
	})
}
