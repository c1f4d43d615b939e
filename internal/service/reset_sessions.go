package service

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// ResetSessions tracks the password-reset flow per user:
// Idle -> OtpIssued -> SessionActive -> Idle.
// A mismatched code leaves the issued OTP in place. The session flag reads
// false once ttl has elapsed; a zero ttl keeps it until the reset completes.
type ResetSessions struct {
	mu      sync.Mutex
	entries map[string]*resetEntry
	ttl     time.Duration
	clock   Clock
}

type resetEntry struct {
	otp           string
	sessionActive bool
	sessionUntil  time.Time
}

func NewResetSessions(ttl time.Duration, clock Clock) *ResetSessions {
	if clock == nil {
		clock = RealClock{}
	}
	return &ResetSessions{
		entries: make(map[string]*resetEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// IssueOTP stores code as the active OTP for key, replacing any earlier one.
func (s *ResetSessions) IssueOTP(key, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entry(key)
	entry.otp = code
}

// VerifyOTP compares code numerically with the active OTP. On a match the
// OTP is cleared and the reset session starts.
func (s *ResetSessions) VerifyOTP(key, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || entry.otp == "" {
		return false
	}
	if !sameNumber(entry.otp, code) {
		return false
	}
	entry.otp = ""
	entry.sessionActive = true
	if s.ttl > 0 {
		entry.sessionUntil = s.clock.Now().Add(s.ttl)
	}
	return true
}

func (s *ResetSessions) SessionActive(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return false
	}
	return s.active(entry)
}

// AnyActive reports whether some user currently holds a reset session.
func (s *ResetSessions) AnyActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if s.active(entry) {
			return true
		}
	}
	return false
}

func (s *ResetSessions) EndSession(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return
	}
	entry.sessionActive = false
	entry.sessionUntil = time.Time{}
	if entry.otp == "" {
		delete(s.entries, key)
	}
}

func (s *ResetSessions) entry(key string) *resetEntry {
	entry, ok := s.entries[key]
	if !ok {
		entry = &resetEntry{}
		s.entries[key] = entry
	}
	return entry
}

func (s *ResetSessions) active(entry *resetEntry) bool {
	if !entry.sessionActive {
		return false
	}
	if entry.sessionUntil.IsZero() {
		return true
	}
	if s.clock.Now().After(entry.sessionUntil) {
		entry.sessionActive = false
		entry.sessionUntil = time.Time{}
		return false
	}
	return true
}

func sameNumber(expected, supplied string) bool {
	a, err := strconv.ParseUint(strings.TrimSpace(expected), 10, 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseUint(strings.TrimSpace(supplied), 10, 64)
	if err != nil {
		return false
	}
	return a == b
}
