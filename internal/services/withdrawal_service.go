package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"BidVault/internal/database"
	"BidVault/internal/models"
)

// Withdrawal policy. The fee is charged up front and is not refunded when
// the payout fails downstream.
const (
	WithdrawalMin = 100.0
	WithdrawalMax = 100000.0
	WithdrawalFee = 20.0
)

// WithdrawalService drains released balances to the external payout rail.
type WithdrawalService struct{}

func NewWithdrawalService() *WithdrawalService {
	return &WithdrawalService{}
}

// Deduction returns the fee and the total debited for a withdrawal amount.
func Deduction(amount float64) (fee, totalDeducted float64) {
	return WithdrawalFee, amount + WithdrawalFee
}

// ValidateWithdrawalAmount enforces the min/max bounds.
func ValidateWithdrawalAmount(amount float64) error {
	if amount < WithdrawalMin || amount > WithdrawalMax {
		return models.ErrWithdrawalBounds
	}
	return nil
}

// RequestWithdrawal debits amount+fee from the available balance, records a
// pending withdrawal, then attempts the payout. The debit is pessimistic:
// it lands before the payout is confirmed, and a payout failure leaves the
// withdrawal failed for manual reconciliation with the debit standing.
func (s *WithdrawalService) RequestWithdrawal(userID uint, amount float64, bankAccountID uint) (*models.Withdrawal, error) {
	if err := ValidateWithdrawalAmount(amount); err != nil {
		return nil, err
	}
	fee, totalDeducted := Deduction(amount)

	var withdrawal models.Withdrawal
	var account models.BankAccount

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", bankAccountID, userID).First(&account).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		if user.Balance < totalDeducted {
			return models.ErrInsufficientBalance
		}

		user.Balance -= totalDeducted
		user.PendingBalance += amount
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			UserID:        userID,
			BankAccountID: bankAccountID,
			Amount:        amount,
			Fee:           fee,
			TotalDeducted: totalDeducted,
			Status:        models.WithdrawalPending,
			Method:        "bank_transfer",
			Reference:     newReference("WTH"),
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}

		txRecord := models.Transaction{
			UserID:      userID,
			Type:        models.TransactionWithdrawal,
			Amount:      totalDeducted,
			Status:      models.TransactionPending,
			Reference:   withdrawal.Reference + "-TXN",
			Description: fmt.Sprintf("Withdrawal of %.2f (fee %.2f) to %s", amount, fee, account.BankName),
		}
		return tx.Create(&txRecord).Error
	})
	if err != nil {
		return nil, err
	}

	s.attemptPayout(&withdrawal, &account)
	return &withdrawal, nil
}

// attemptPayout submits the payout and settles the withdrawal row. Missing
// bank details leave it pending; a rail error marks it failed. Neither path
// refunds the fee.
func (s *WithdrawalService) attemptPayout(withdrawal *models.Withdrawal, account *models.BankAccount) {
	notif := NewNotificationService()

	if account.AccountNumber == "" || account.IFSCCode == "" {
		log.Printf("withdrawal %s: incomplete bank details, left pending for manual processing", withdrawal.Reference)
		return
	}

	rail := NewRazorpayService()
	payout, err := rail.CreatePayout(*account, withdrawal.Amount, withdrawal.Reference,
		"BidVault balance withdrawal")
	if err != nil {
		log.Printf("withdrawal %s: payout failed: %v", withdrawal.Reference, err)
		s.settle(withdrawal, models.WithdrawalFailed, "", err.Error())
		if nerr := notif.NotifyWithdrawalFailed(withdrawal.UserID, withdrawal.Amount, withdrawal.Reference); nerr != nil {
			log.Printf("withdrawal %s: failure notification failed: %v", withdrawal.Reference, nerr)
		}
		return
	}

	s.settle(withdrawal, models.WithdrawalCompleted, payout.ID, "")
	if nerr := notif.NotifyWithdrawalSuccess(withdrawal.UserID, withdrawal.Amount, account.BankName, withdrawal.Reference); nerr != nil {
		log.Printf("withdrawal %s: success notification failed: %v", withdrawal.Reference, nerr)
	}

	email := NewEmailService()
	var user models.User
	if err := database.DB.First(&user, withdrawal.UserID).Error; err == nil {
		if eerr := email.SendWithdrawalEmail(user.Email, withdrawal.Amount, account.BankName); eerr != nil {
			log.Printf("withdrawal %s: email failed: %v", withdrawal.Reference, eerr)
		}
	}
}

func (s *WithdrawalService) settle(withdrawal *models.Withdrawal, status models.WithdrawalStatus, payoutID, failureReason string) {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		withdrawal.Status = status
		withdrawal.PayoutID = payoutID
		withdrawal.FailureReason = failureReason
		if status == models.WithdrawalCompleted {
			now := time.Now()
			withdrawal.CompletedAt = &now
		}
		if err := tx.Omit(clause.Associations).Save(withdrawal).Error; err != nil {
			return err
		}

		// Clear the pending-balance bookkeeping either way: the amount has
		// left the ledger, and a failed payout is reconciled manually.
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, withdrawal.UserID).Error; err != nil {
			return err
		}
		user.PendingBalance -= withdrawal.Amount
		if user.PendingBalance < 0 {
			user.PendingBalance = 0
		}
		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}

		txStatus := models.TransactionCompleted
		if status == models.WithdrawalFailed {
			txStatus = models.TransactionFailed
		}
		return tx.Model(&models.Transaction{}).
			Where("reference = ?", withdrawal.Reference+"-TXN").
			Update("status", txStatus).Error
	})
	if err != nil {
		log.Printf("withdrawal %s: failed to settle as %s: %v", withdrawal.Reference, status, err)
	}
}

// GetBalance returns the user's available and pending balances.
func (s *WithdrawalService) GetBalance(userID uint) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithdrawals lists the user's withdrawal requests, newest first.
func (s *WithdrawalService) GetWithdrawals(userID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := database.DB.Preload("BankAccount").
		Where("user_id = ?", userID).Order("created_at DESC").Find(&withdrawals).Error
	return withdrawals, err
}

// IsNotFound reports a gorm record-not-found error; shared by handlers.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
