// internal/services/suggestion_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/melodia-community/melodia-backend/internal/database"
	"github.com/melodia-community/melodia-backend/internal/models"
	"github.com/melodia-community/melodia-backend/internal/utils"
)

type SuggestionService struct {
	db *gorm.DB
}

type CreateSuggestionRequest struct {
	Title  string   `json:"title" validate:"required,min=1,max=255"`
	Artist string   `json:"artist" validate:"required,min=1,max=255"`
	Genres []string `json:"genres,omitempty" validate:"omitempty,max=5,dive,max=50"`
	Note   string   `json:"note,omitempty"`
}

type SuggestionSearchParams struct {
	utils.PaginationParams
	SuggestionStatus *models.SuggestionStatus `json:"status,omitempty"`
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

func (s *SuggestionService) CreateSuggestion(userID uuid.UUID, req *CreateSuggestionRequest) (*models.SongSuggestion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	suggestion := &models.SongSuggestion{
		Title:         req.Title,
		Artist:        req.Artist,
		Genres:        pq.StringArray(req.Genres),
		Note:          req.Note,
		Status:        models.SuggestionStatusOpen,
		SuggestedByID: userID,
	}

	if err := s.db.Create(suggestion).Error; err != nil {
		return nil, fmt.Errorf("failed to create suggestion: %w", err)
	}

	return suggestion, nil
}

func (s *SuggestionService) GetSuggestion(id uuid.UUID) (*models.SongSuggestion, error) {
	var suggestion models.SongSuggestion
	if err := s.db.Preload("SuggestedBy").First(&suggestion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("suggestion not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &suggestion, nil
}

func (s *SuggestionService) SearchSuggestions(params SuggestionSearchParams) ([]models.SongSuggestion, int64, error) {
	query := s.db.Model(&models.SongSuggestion{}).Preload("SuggestedBy")

	if params.SuggestionStatus != nil {
		query = query.Where("status = ?", *params.SuggestionStatus)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR artist ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count suggestions: %w", err)
	}

	allowedSortFields := []string{"created_at", "votes", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var suggestions []models.SongSuggestion
	if err := query.Find(&suggestions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suggestions: %w", err)
	}

	return suggestions, total, nil
}

// Vote records one vote per user per suggestion; the unique index is the
// guard against double voting.
func (s *SuggestionService) Vote(suggestionID, userID uuid.UUID) (*models.SongSuggestion, error) {
	var suggestion models.SongSuggestion
	if err := s.db.First(&suggestion, suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("suggestion not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if suggestion.Status != models.SuggestionStatusOpen {
		return nil, errors.New("suggestion is not open for voting")
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		vote := &models.SuggestionVote{
			SuggestionID: suggestionID,
			UserID:       userID,
		}
		if err := tx.Create(vote).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
				return errors.New("already voted for this suggestion")
			}
			return fmt.Errorf("failed to record vote: %w", err)
		}
		return tx.Model(&models.SongSuggestion{}).
			Where("id = ?", suggestionID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("SuggestedBy").First(&suggestion, suggestionID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload suggestion: %w", err)
	}

	return &suggestion, nil
}

func (s *SuggestionService) UpdateStatus(id uuid.UUID, status models.SuggestionStatus) (*models.SongSuggestion, error) {
	if status != models.SuggestionStatusOpen &&
		status != models.SuggestionStatusPicked &&
		status != models.SuggestionStatusArchived {
		return nil, errors.New("invalid suggestion status")
	}

	var suggestion models.SongSuggestion
	if err := s.db.First(&suggestion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("suggestion not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	suggestion.Status = status
	if err := s.db.Save(&suggestion).Error; err != nil {
		return nil, fmt.Errorf("failed to update suggestion: %w", err)
	}

	return &suggestion, nil
}

func (s *SuggestionService) DeleteSuggestion(id, requesterID uuid.UUID, isAdmin bool) error {
	var suggestion models.SongSuggestion
	if err := s.db.First(&suggestion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("suggestion not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && suggestion.SuggestedByID != requesterID {
		return errors.New("unauthorized to delete suggestion")
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("suggestion_id = ?", id).Delete(&models.SuggestionVote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Delete(&suggestion).Error; err != nil {
			return fmt.Errorf("failed to delete suggestion: %w", err)
		}
		return nil
	})
}
