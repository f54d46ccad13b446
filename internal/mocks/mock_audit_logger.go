package mocks

import (
	"context"

	"github.com/you/meddirsvc/domain"
)

// MockAuditLogger implements domain.AuditLogger for testing
type MockAuditLogger struct {
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	m.Events = append(m.Events, event)
}
