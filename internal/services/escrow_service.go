package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"BidVault/internal/database"
	"BidVault/internal/models"
)

// EscrowService drives the wallet state machine. Every command runs as one
// transaction covering precondition check, mutation, persistence and the
// audit append, with a row lock on the wallet so concurrent commands on the
// same wallet serialize instead of racing on the aggregate totals.
type EscrowService struct{}

func NewEscrowService() *EscrowService {
	return &EscrowService{}
}

type BatchReleaseResult struct {
	UserID  uint   `json:"user_id"`
	BidID   uint   `json:"bid_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CreateWalletIfReady lazily creates the project's escrow wallet once the
// bonus pool is funded and the selection is completed. Idempotent: an
// existing wallet is returned as-is after a reconciliation pass that locks
// any funds missing from a previous partial failure.
func (s *EscrowService) CreateWalletIfReady(projectID uint) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	created := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&wallet).Error
		if err == nil {
			if err := tx.Where("wallet_id = ?", wallet.ID).Find(&wallet.LockedFunds).Error; err != nil {
				return err
			}
			return s.reconcileLocks(tx, &wallet)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var pool models.BonusPool
		if err := tx.Where("project_id = ?", projectID).First(&pool).Error; err != nil {
			return err
		}
		if pool.Status != models.PoolFunded {
			return models.ErrPoolNotFunded
		}

		var selection models.Selection
		if err := tx.Preload("SelectedUsers").Where("project_id = ?", projectID).First(&selection).Error; err != nil {
			return err
		}
		if selection.Status != models.SelectionCompleted {
			return models.ErrSelectionIncomplete
		}

		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}

		var totalBid float64
		for _, su := range selection.SelectedUsers {
			var bid models.Bid
			if err := tx.First(&bid, su.BidID).Error; err != nil {
				return err
			}
			totalBid += bid.Amount
		}

		contributors := len(selection.SelectedUsers)
		wallet = models.EscrowWallet{
			ProjectID:            projectID,
			OwnerID:              project.OwnerID,
			TotalBidAmount:       totalBid,
			TotalBonusPool:       pool.TotalAmount,
			Status:               models.WalletActive,
			TotalContributors:    contributors,
			AmountPerContributor: models.BonusShare(pool.TotalAmount, contributors),
		}
		wallet.Recompute()

		if err := tx.Omit(clause.Associations).Create(&wallet).Error; err != nil {
			return err
		}
		audit := wallet.AuditEntry(models.AuditActionCreate, wallet.TotalEscrowAmount, project.OwnerID,
			fmt.Sprintf("escrow wallet created for project %d", projectID))
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		created = true
		return s.reconcileLocks(tx, &wallet)
	})
	if err != nil {
		return nil, err
	}

	if created {
		notif := NewNotificationService()
		if err := notif.NotifyEscrowCreated(wallet.OwnerID, projectID, wallet.TotalEscrowAmount); err != nil {
			log.Printf("escrow wallet %d: owner notification failed: %v", wallet.ID, err)
		}
	}
	return &wallet, nil
}

// reconcileLocks locks funds for every selected user that has no locked
// fund yet. Lock creation can fail independently of wallet creation, so
// this runs on every CreateWalletIfReady call as an explicit self-healing
// step rather than being folded into construction.
func (s *EscrowService) reconcileLocks(tx *gorm.DB, wallet *models.EscrowWallet) error {
	var selection models.Selection
	if err := tx.Preload("SelectedUsers").Where("project_id = ?", wallet.ProjectID).First(&selection).Error; err != nil {
		return err
	}

	for _, su := range selection.SelectedUsers {
		if wallet.FindFund(su.UserID, su.BidID) != nil {
			continue
		}
		var bid models.Bid
		if err := tx.First(&bid, su.BidID).Error; err != nil {
			return err
		}
		if err := s.lockFund(tx, wallet, su.UserID, su.BidID, bid.Amount); err != nil {
			return err
		}
	}
	return nil
}

// LockFunds locks one contributor's bid amount plus bonus share.
func (s *EscrowService) LockFunds(projectID, userID, bidID uint) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.loadWalletForUpdate(tx, projectID, &wallet); err != nil {
			return err
		}
		var bid models.Bid
		if err := tx.First(&bid, bidID).Error; err != nil {
			return err
		}
		return s.lockFund(tx, &wallet, userID, bidID, bid.Amount)
	})
	if err != nil {
		return nil, err
	}

	if fund := wallet.FindFund(userID, bidID); fund != nil {
		notif := NewNotificationService()
		if err := notif.NotifyFundsLocked(userID, projectID, fund.TotalAmount); err != nil {
			log.Printf("escrow wallet %d: lock notification failed: %v", wallet.ID, err)
		}
	}
	return &wallet, nil
}

func (s *EscrowService) lockFund(tx *gorm.DB, wallet *models.EscrowWallet, userID, bidID uint, bidAmount float64) error {
	fund, err := wallet.Lock(userID, bidID, bidAmount, wallet.AmountPerContributor, time.Now())
	if err != nil {
		return err
	}
	if err := tx.Create(fund).Error; err != nil {
		return err
	}
	if err := tx.Omit(clause.Associations).Save(wallet).Error; err != nil {
		return err
	}

	audit := wallet.AuditEntry(models.AuditActionLock, fund.TotalAmount, userID,
		fmt.Sprintf("locked bid %.2f + bonus %.2f for bid %d", fund.BidAmount, fund.BonusAmount, bidID))
	if err := tx.Create(&audit).Error; err != nil {
		return err
	}

	if err := tx.Model(&models.Bid{}).Where("id = ?", bidID).
		Update("payment_status", models.BidPaymentLocked).Error; err != nil {
		return err
	}

	txRecord := models.Transaction{
		UserID:      userID,
		ProjectID:   wallet.ProjectID,
		Type:        models.TransactionEscrowLock,
		Amount:      fund.TotalAmount,
		Status:      models.TransactionCompleted,
		Reference:   newReference("LCK"),
		Description: fmt.Sprintf("Funds locked in escrow for project %d", wallet.ProjectID),
	}
	return tx.Create(&txRecord).Error
}

// ReleaseFund releases a locked fund. The payout attempt after commit is
// best-effort: a failed payout is logged and the ledger state stands.
func (s *EscrowService) ReleaseFund(projectID, userID, bidID uint, reason models.ReleaseReason) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	var released *models.LockedFund

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.loadWalletForUpdate(tx, projectID, &wallet); err != nil {
			return err
		}

		fund, err := wallet.Release(userID, bidID, reason, time.Now())
		if err != nil {
			return err
		}
		released = fund

		if err := tx.Save(fund).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&wallet).Error; err != nil {
			return err
		}

		audit := wallet.AuditEntry(models.AuditActionRelease, fund.TotalAmount, userID,
			fmt.Sprintf("released with reason %s", reason))
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Bid{}).Where("id = ?", bidID).
			Update("payment_status", models.BidPaymentPaid).Error; err != nil {
			return err
		}

		txRecord := models.Transaction{
			UserID:      userID,
			ProjectID:   projectID,
			Type:        models.TransactionEscrowRelease,
			Amount:      fund.TotalAmount,
			Status:      models.TransactionCompleted,
			Reference:   newReference("REL"),
			Description: fmt.Sprintf("Escrow released (%s) for project %d", reason, projectID),
		}
		return tx.Create(&txRecord).Error
	})
	if err != nil {
		return nil, err
	}

	s.attemptReleasePayout(userID, released.TotalAmount, projectID)

	notif := NewNotificationService()
	if err := notif.NotifyFundsReleased(userID, projectID, released.TotalAmount); err != nil {
		log.Printf("escrow wallet %d: release notification failed: %v", wallet.ID, err)
	}
	return &wallet, nil
}

// attemptReleasePayout fires a payout at the external rail. Failure never
// rolls back the release; the ledger is the source of truth.
func (s *EscrowService) attemptReleasePayout(userID uint, amount float64, projectID uint) {
	var account models.BankAccount
	if err := database.DB.Where("user_id = ? AND is_default = ?", userID, true).First(&account).Error; err != nil {
		log.Printf("release payout skipped for user %d: no default bank account", userID)
		return
	}

	rail := NewRazorpayService()
	payout, err := rail.CreatePayout(account, amount, newReference("PAYOUT"),
		fmt.Sprintf("Escrow release for project %d", projectID))
	if err != nil {
		log.Printf("release payout failed for user %d: %v", userID, err)
		return
	}
	log.Printf("release payout %s created for user %d (status %s)", payout.ID, userID, payout.Status)
}

// RefundFund refunds a locked fund to the project owner's side of the
// ledger. The bonus pool total is not reduced.
func (s *EscrowService) RefundFund(projectID, userID, bidID uint) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.loadWalletForUpdate(tx, projectID, &wallet); err != nil {
			return err
		}

		fund, err := wallet.Refund(userID, bidID, time.Now())
		if err != nil {
			return err
		}

		if err := tx.Save(fund).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&wallet).Error; err != nil {
			return err
		}

		audit := wallet.AuditEntry(models.AuditActionRefund, fund.TotalAmount, userID, "fund refunded")
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Bid{}).Where("id = ?", bidID).
			Update("payment_status", models.BidPaymentRefunded).Error; err != nil {
			return err
		}

		txRecord := models.Transaction{
			UserID:      userID,
			ProjectID:   projectID,
			Type:        models.TransactionEscrowRefund,
			Amount:      fund.TotalAmount,
			Status:      models.TransactionCompleted,
			Reference:   newReference("RFD"),
			Description: fmt.Sprintf("Escrow refunded for project %d", projectID),
		}
		return tx.Create(&txRecord).Error
	})
	if err != nil {
		return nil, err
	}

	notif := NewNotificationService()
	if err := notif.NotifyFundsRefunded(userID, projectID); err != nil {
		log.Printf("escrow wallet %d: refund notification failed: %v", wallet.ID, err)
	}
	return &wallet, nil
}

// MoveToBalance credits a released fund to the contributor's withdrawable
// balance. Step one of the two-step withdrawal flow.
func (s *EscrowService) MoveToBalance(projectID, userID, bidID uint) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.loadWalletForUpdate(tx, projectID, &wallet); err != nil {
			return err
		}

		fund, err := wallet.MoveToBalance(userID, bidID, time.Now())
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		user.Balance += fund.TotalAmount
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}

		if err := tx.Save(fund).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&wallet).Error; err != nil {
			return err
		}

		audit := wallet.AuditEntry(models.AuditActionMoveToBalance, fund.TotalAmount, userID, "moved to withdrawable balance")
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		txRecord := models.Transaction{
			UserID:      userID,
			ProjectID:   projectID,
			Type:        models.TransactionBalanceCredit,
			Amount:      fund.TotalAmount,
			Status:      models.TransactionCompleted,
			Reference:   newReference("BAL"),
			Description: fmt.Sprintf("Escrow funds moved to balance for project %d", projectID),
		}
		return tx.Create(&txRecord).Error
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CompleteProject marks the project complete and batch-releases every
// still-locked fund. Each release runs independently; one failure does not
// abort the rest.
func (s *EscrowService) CompleteProject(projectID, ownerID uint) (*models.EscrowWallet, []BatchReleaseResult, error) {
	var wallet models.EscrowWallet
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.loadWalletForUpdate(tx, projectID, &wallet); err != nil {
			return err
		}
		if err := wallet.MarkCompleted(ownerID, time.Now()); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&wallet).Error; err != nil {
			return err
		}

		audit := wallet.AuditEntry(models.AuditActionComplete, 0, ownerID, "project marked completed by owner")
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		return tx.Model(&models.Project{}).Where("id = ?", projectID).
			Update("status", models.ProjectCompleted).Error
	})
	if err != nil {
		return nil, nil, err
	}

	results := make([]BatchReleaseResult, 0, len(wallet.LockedFundsOnly()))
	for _, fund := range wallet.LockedFundsOnly() {
		result := BatchReleaseResult{UserID: fund.UserID, BidID: fund.BidID, Success: true}
		if _, err := s.ReleaseFund(projectID, fund.UserID, fund.BidID, models.ReasonProjectCompletion); err != nil {
			result.Success = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	notif := NewNotificationService()
	for _, r := range results {
		if r.Success {
			if err := notif.NotifyProjectCompleted(r.UserID, projectID); err != nil {
				log.Printf("project %d: completion notification failed for user %d: %v", projectID, r.UserID, err)
			}
		}
	}

	// Reload for the caller: the batch releases moved the aggregates.
	if err := database.DB.Preload("LockedFunds").Where("project_id = ?", projectID).First(&wallet).Error; err != nil {
		return nil, results, err
	}
	return &wallet, results, nil
}

// GetWalletByProject loads the wallet with its funds and audit trail.
func (s *EscrowService) GetWalletByProject(projectID uint) (*models.EscrowWallet, error) {
	var wallet models.EscrowWallet
	err := database.DB.Preload("LockedFunds").Preload("AuditLogs").
		Where("project_id = ?", projectID).First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetWalletsByOwner lists an owner's wallets.
func (s *EscrowService) GetWalletsByOwner(ownerID uint) ([]models.EscrowWallet, error) {
	var wallets []models.EscrowWallet
	err := database.DB.Preload("LockedFunds").
		Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&wallets).Error
	return wallets, err
}

func (s *EscrowService) loadWalletForUpdate(tx *gorm.DB, projectID uint, wallet *models.EscrowWallet) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).First(wallet).Error; err != nil {
		return err
	}
	return tx.Where("wallet_id = ?", wallet.ID).Order("id ASC").Find(&wallet.LockedFunds).Error
}

func newReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}
