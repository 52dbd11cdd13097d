package services

import (
	"encoding/json"
	"fmt"

	"BidVault/internal/database"
	"BidVault/internal/models"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// CreateNotification creates a new notification
func (s *NotificationService) CreateNotification(userID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	// Convert data to JSON string
	var dataJSON string
	if data != nil {
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = string(jsonBytes)
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
		IsRead:  false,
	}

	if err := database.DB.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// NotifySelectionStarted notifies bidders that selection has begun
func (s *NotificationService) NotifySelectionStarted(userID uint, projectID uint) error {
	return s.CreateNotification(
		userID,
		models.NotificationSelectionStarted,
		"Contributor Selection Started",
		"The owner has started selecting contributors for a project you bid on",
		map[string]interface{}{
			"project_id": projectID,
		},
	)
}

// NotifyUserSelected notifies a bidder they were selected
func (s *NotificationService) NotifyUserSelected(userID uint, projectID uint, score float64) error {
	return s.CreateNotification(
		userID,
		models.NotificationUserSelected,
		"You Have Been Selected",
		fmt.Sprintf("You were selected as a contributor (score %.1f). Your funds will be locked in escrow once the wallet is created.", score),
		map[string]interface{}{
			"project_id": projectID,
			"score":      score,
		},
	)
}

// NotifyEscrowCreated notifies the owner that the escrow wallet exists
func (s *NotificationService) NotifyEscrowCreated(ownerID uint, projectID uint, totalAmount float64) error {
	return s.CreateNotification(
		ownerID,
		models.NotificationEscrowCreated,
		"Escrow Wallet Created",
		fmt.Sprintf("An escrow wallet holding ₹%.2f has been created for your project", totalAmount),
		map[string]interface{}{
			"project_id":   projectID,
			"total_amount": totalAmount,
		},
	)
}

// NotifyFundsLocked notifies a contributor their funds are locked
func (s *NotificationService) NotifyFundsLocked(userID uint, projectID uint, amount float64) error {
	return s.CreateNotification(
		userID,
		models.NotificationFundsLocked,
		"Funds Locked in Escrow",
		fmt.Sprintf("₹%.2f has been locked in escrow for your work", amount),
		map[string]interface{}{
			"project_id": projectID,
			"amount":     amount,
		},
	)
}

// NotifyFundsReleased notifies a contributor their funds were released
func (s *NotificationService) NotifyFundsReleased(userID uint, projectID uint, amount float64) error {
	return s.CreateNotification(
		userID,
		models.NotificationFundsReleased,
		"Funds Released",
		fmt.Sprintf("₹%.2f has been released from escrow. Move it to your balance to withdraw.", amount),
		map[string]interface{}{
			"project_id": projectID,
			"amount":     amount,
		},
	)
}

// NotifyFundsRefunded notifies a contributor their fund was refunded
func (s *NotificationService) NotifyFundsRefunded(userID uint, projectID uint) error {
	return s.CreateNotification(
		userID,
		models.NotificationFundsRefunded,
		"Escrow Refunded",
		"Your locked escrow funds for a project have been refunded",
		map[string]interface{}{
			"project_id": projectID,
		},
	)
}

// NotifyProjectCompleted notifies a contributor the project is done
func (s *NotificationService) NotifyProjectCompleted(userID uint, projectID uint) error {
	return s.CreateNotification(
		userID,
		models.NotificationProjectCompleted,
		"Project Completed",
		"The project owner marked the project as completed. Your escrow funds have been released.",
		map[string]interface{}{
			"project_id": projectID,
		},
	)
}

// NotifyBonusPoolFunded notifies the owner the bonus pool was funded
func (s *NotificationService) NotifyBonusPoolFunded(ownerID uint, projectID uint, amount float64) error {
	return s.CreateNotification(
		ownerID,
		models.NotificationBonusPoolFunded,
		"Bonus Pool Funded",
		fmt.Sprintf("Your bonus pool payment of ₹%.2f has been captured", amount),
		map[string]interface{}{
			"project_id": projectID,
			"amount":     amount,
		},
	)
}

// NotifyWithdrawalSuccess notifies user of successful withdrawal
func (s *NotificationService) NotifyWithdrawalSuccess(userID uint, amount float64, bankName, reference string) error {
	return s.CreateNotification(
		userID,
		models.NotificationWithdrawalSuccess,
		"Withdrawal Successful",
		fmt.Sprintf("₹%.2f has been sent to your %s account", amount, bankName),
		map[string]interface{}{
			"amount":    amount,
			"bank_name": bankName,
			"reference": reference,
		},
	)
}

// NotifyWithdrawalFailed notifies user of failed withdrawal
func (s *NotificationService) NotifyWithdrawalFailed(userID uint, amount float64, reference string) error {
	return s.CreateNotification(
		userID,
		models.NotificationWithdrawalFailed,
		"Withdrawal Failed",
		fmt.Sprintf("Your withdrawal of ₹%.2f could not be processed and is awaiting manual review", amount),
		map[string]interface{}{
			"amount":    amount,
			"reference": reference,
		},
	)
}
