package services

import (
	"errors"
	"time"

	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSanctionNotFound = errors.New("sanction not found")
	ErrAlreadyBlocked   = errors.New("account already blocked")
	ErrSelfBlock        = errors.New("cannot block yourself")
)

// ModerationService covers the review surface around the report pipeline:
// player ignore lists and the admin console queries.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) BlockAccount(blockerID, blockedID int64) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	var existing models.Block
	if err := s.db.Where("blocker_account_id = ? AND blocked_account_id = ?", blockerID, blockedID).First(&existing).Error; err == nil {
		return ErrAlreadyBlocked
	}

	block := models.Block{
		BlockerAccountID: blockerID,
		BlockedAccountID: blockedID,
	}
	return s.db.Create(&block).Error
}

func (s *ModerationService) UnblockAccount(blockerID, blockedID int64) error {
	return s.db.
		Where("blocker_account_id = ? AND blocked_account_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

func (s *ModerationService) GetBlockedIDs(accountID int64) ([]int64, error) {
	var blocks []models.Block
	if err := s.db.Where("blocker_account_id = ?", accountID).Find(&blocks).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, len(blocks))
	for i, b := range blocks {
		ids[i] = b.BlockedAccountID
	}
	return ids, nil
}

func (s *ModerationService) ListReports(targetID int64, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if targetID > 0 {
		query = query.Where("reported_account_id = ?", targetID)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ModerationService) ListSanctions(accountID int64, activeOnly bool, limit, offset int) ([]models.Sanction, int64, error) {
	var sanctions []models.Sanction
	var total int64

	query := s.db.Model(&models.Sanction{})
	if accountID > 0 {
		query = query.Where("account_id = ?", accountID)
	}
	if activeOnly {
		now := time.Now().UTC()
		query = query.Where("lifted_at IS NULL AND (end_at IS NULL OR end_at > ?)", now)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&sanctions).Error; err != nil {
		return nil, 0, err
	}
	return sanctions, total, nil
}

// LiftSanction manually ends a sanction (admin override). Lifting a ban
// also clears the account-level ban marker.
func (s *ModerationService) LiftSanction(sanctionID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sanction models.Sanction
		if err := tx.First(&sanction, "id = ?", sanctionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSanctionNotFound
			}
			return err
		}
		if sanction.LiftedAt != nil {
			return nil
		}

		now := time.Now().UTC()
		if err := tx.Model(&sanction).Update("lifted_at", now).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"sanctioned_until": nil}
		if sanction.Kind == models.SanctionKindBan {
			updates["banned_at"] = nil
		}
		return tx.Model(&models.Account{}).
			Where("id = ?", sanction.AccountID).
			Updates(updates).Error
	})
}
