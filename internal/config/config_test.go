package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty allows all", raw: "", want: nil},
		{name: "single", raw: "https://exam.example.com", want: []string{"https://exam.example.com"}},
		{name: "trims and skips blanks", raw: " https://a.test , ,https://b.test ", want: []string{"https://a.test", "https://b.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrigins(tt.raw))
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("CANDIDATE_EMAIL_DOMAIN", "corp.test")
	t.Setenv("DB_STATEMENT_TIMEOUT_MS", "2500")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, int32(16), cfg.MaxDBConns)
	assert.Equal(t, "corp.test", cfg.CandidateEmailDomain)
	assert.Equal(t, 2500*time.Millisecond, cfg.DBStatementTimeout)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "login:candidate:IC-1234", CacheKey.CandidateLoginKey("IC-1234"))
	assert.Equal(t, "assessment:assess_civil_001:full", CacheKey.AssessmentKey("assess_civil_001"))
}
