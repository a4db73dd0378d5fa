package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CandidateLoginKey returns the key holding the JTI of a candidate's active login.
func (r *CacheKeyStruct) CandidateLoginKey(candidateID string) string {
	return fmt.Sprintf("login:candidate:%s", candidateID)
}

// AssessmentKey returns the key of the cached assessment (answer key included).
// Only the session engine reads it; candidate-facing output is projected first.
func (r *CacheKeyStruct) AssessmentKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:full", assessmentID)
}

// MonitorChannel is the pub/sub channel carrying live session events for admins.
func (r *CacheKeyStruct) MonitorChannel() string {
	return "assessment:monitor"
}

var CacheKey = NewCacheKeyStruct()
