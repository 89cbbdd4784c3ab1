// internal/services/roster_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/config"
	"github.com/melodia-community/melodia-backend/internal/database"
	"github.com/melodia-community/melodia-backend/internal/models"
)

// RosterService keeps a local snapshot of the community's Google Sheets
// member roster and answers eligibility lookups against it. Lookups never
// talk to the sheet directly; an unsynced or empty snapshot means nobody is
// eligible.
type RosterService struct {
	db     *gorm.DB
	config *config.Config
}

type EligibilityResult struct {
	IsEligible bool   `json:"is_eligible"`
	Note       string `json:"note,omitempty"`
}

func NewRosterService(db *gorm.DB, cfg *config.Config) *RosterService {
	return &RosterService{db: db, config: cfg}
}

// SyncFromSheet replaces the roster snapshot with the current sheet
// contents. Rows missing a student number are skipped.
func (s *RosterService) SyncFromSheet(ctx context.Context) error {
	if s.config.Roster.SpreadsheetID == "" {
		return s.recordSyncError(errors.New("roster spreadsheet not configured"))
	}

	var opts []option.ClientOption
	if s.config.Roster.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.config.Roster.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return s.recordSyncError(fmt.Errorf("failed to create sheets client: %w", err))
	}

	resp, err := svc.Spreadsheets.Values.
		Get(s.config.Roster.SpreadsheetID, s.config.Roster.ReadRange).
		Context(ctx).
		Do()
	if err != nil {
		return s.recordSyncError(fmt.Errorf("failed to read roster sheet: %w", err))
	}

	now := time.Now()
	members := make([]models.RosterMember, 0, len(resp.Values))
	for _, row := range resp.Values {
		m := models.RosterMember{SyncedAt: now}
		if len(row) > 0 {
			m.StudentNumber = strings.TrimSpace(fmt.Sprint(row[0]))
		}
		if len(row) > 1 {
			m.FullName = strings.TrimSpace(fmt.Sprint(row[1]))
		}
		if len(row) > 2 {
			m.Department = strings.TrimSpace(fmt.Sprint(row[2]))
		}
		if len(row) > 3 {
			m.Year = strings.TrimSpace(fmt.Sprint(row[3]))
		}
		if m.StudentNumber == "" {
			continue
		}
		members = append(members, m)
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.RosterMember{}).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			if err := tx.CreateInBatches(members, 200).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.RosterSyncStatus{}).Where("id = ?", 1).Updates(map[string]interface{}{
			"last_synced_at": now,
			"last_error":     "",
			"member_count":   len(members),
			"updated_at":     now,
		}).Error
	})
	if err != nil {
		return s.recordSyncError(fmt.Errorf("failed to store roster snapshot: %w", err))
	}

	logrus.WithField("members", len(members)).Info("Roster sync completed")
	return nil
}

func (s *RosterService) recordSyncError(err error) error {
	now := time.Now()
	if dbErr := s.db.Model(&models.RosterSyncStatus{}).Where("id = ?", 1).Updates(map[string]interface{}{
		"last_error": err.Error(),
		"updated_at": now,
	}).Error; dbErr != nil {
		logrus.WithError(dbErr).Error("Failed to record roster sync error")
	}
	logrus.WithError(err).Error("Roster sync failed")
	return err
}

// CheckEligibility looks up the student number in the roster snapshot. A
// lookup failure or an empty snapshot yields "not eligible", never an error
// to the caller's benefit.
func (s *RosterService) CheckEligibility(studentNumber, fullName string) EligibilityResult {
	studentNumber = strings.TrimSpace(studentNumber)
	if studentNumber == "" {
		return EligibilityResult{IsEligible: false, Note: "student number is empty"}
	}

	var member models.RosterMember
	if err := s.db.Where("student_number = ?", studentNumber).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EligibilityResult{IsEligible: false, Note: "student number not found in roster"}
		}
		logrus.WithError(err).Error("Roster lookup failed")
		return EligibilityResult{IsEligible: false, Note: "roster lookup failed"}
	}

	result := EligibilityResult{IsEligible: true}
	if fullName != "" && member.FullName != "" &&
		normalizeName(fullName) != normalizeName(member.FullName) {
		// Advisory only; the reviewer decides what to make of it.
		result.Note = fmt.Sprintf("name on roster is %q", member.FullName)
	}
	return result
}

// Status returns the health of the last sync for the admin dashboard.
func (s *RosterService) Status() (*models.RosterSyncStatus, error) {
	var status models.RosterSyncStatus
	if err := s.db.First(&status, 1).Error; err != nil {
		return nil, fmt.Errorf("failed to load roster sync status: %w", err)
	}
	return &status, nil
}

var turkishFolding = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

func normalizeName(name string) string {
	name = turkishFolding.Replace(name)
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), " ")
}
