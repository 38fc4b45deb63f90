package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryReport_Counts(t *testing.T) {
	report := &DeliveryReport{
		Attempts: []NotificationAttempt{
			{Number: 1},
			{Number: 2, CertificateError: true},
			{Number: 2, Insecure: true},
			{Number: 3, Success: true},
		},
	}

	assert.Equal(t, 3, report.OuterAttempts())
	assert.Equal(t, 1, report.InsecureRetries())
}

func TestCandidate_Kind(t *testing.T) {
	assert.Equal(t, "hostname", Candidate{Host: "api.telegram.org"}.Kind())
	assert.Equal(t, "address", Candidate{Address: "10.0.0.1", AddressBased: true}.Kind())
}

func TestRunResult_Completed(t *testing.T) {
	tests := []struct {
		result   RunResult
		expected bool
	}{
		{result: RunSessionFailed, expected: false},
		{result: RunLoginFailed, expected: false},
		{result: RunActionFailed, expected: false},
		{result: RunCancelled, expected: false},
		{result: RunCrashed, expected: false},
		{result: RunMarkerNotFound, expected: true},
		{result: RunNotified, expected: true},
		{result: RunNotificationFailed, expected: true},
	}

	for _, test := range tests {
		t.Run(string(test.result), func(t *testing.T) {
			assert.Equal(t, test.expected, test.result.Completed())
		})
	}
}
