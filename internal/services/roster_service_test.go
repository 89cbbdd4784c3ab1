// internal/services/roster_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-community/melodia-backend/internal/models"
)

func TestCheckEligibilityFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	service := NewRosterService(db, testConfig())

	// Empty snapshot means nobody is eligible.
	result := service.CheckEligibility("20210001", "Deniz Yilmaz")
	assert.False(t, result.IsEligible)
	assert.Equal(t, "student number not found in roster", result.Note)

	result = service.CheckEligibility("   ", "Deniz Yilmaz")
	assert.False(t, result.IsEligible)
	assert.Equal(t, "student number is empty", result.Note)
}

func TestCheckEligibilityMatchesRosterEntry(t *testing.T) {
	db := setupTestDB(t)
	service := NewRosterService(db, testConfig())

	require.NoError(t, db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Çağrı Şahin",
		Department:    "Music",
	}).Error)

	result := service.CheckEligibility("20210001", "CAGRI SAHIN")
	assert.True(t, result.IsEligible)
	assert.Empty(t, result.Note)

	// Whitespace around the student number is tolerated.
	result = service.CheckEligibility(" 20210001 ", "Çağrı Şahin")
	assert.True(t, result.IsEligible)
}

func TestCheckEligibilityNameMismatchIsAdvisory(t *testing.T) {
	db := setupTestDB(t)
	service := NewRosterService(db, testConfig())

	require.NoError(t, db.Create(&models.RosterMember{
		StudentNumber: "20210001",
		FullName:      "Deniz Yılmaz",
	}).Error)

	result := service.CheckEligibility("20210001", "Someone Else")
	assert.True(t, result.IsEligible)
	assert.Contains(t, result.Note, `name on roster is "Deniz Yılmaz"`)
}

func TestSyncRecordsErrorWhenUnconfigured(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.RosterSyncStatus{ID: 1}).Error)

	service := NewRosterService(db, testConfig())
	err := service.SyncFromSheet(context.Background())
	require.Error(t, err)

	status, err := service.Status()
	require.NoError(t, err)
	assert.Contains(t, status.LastError, "not configured")
	assert.Nil(t, status.LastSyncedAt)
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Deniz YILMAZ":    "deniz yilmaz",
		"  Çağrı  Şahin ": "cagri sahin",
		"Gül Öztürk":      "gul ozturk",
		"İrem Uçar":       "irem ucar",
	}

	for input, want := range cases {
		assert.Equal(t, want, normalizeName(input), "input %q", input)
	}
}
