package database

import (
    "fmt"
    "log"

    "BidVault/internal/models"
)

func Migrate() error {
    log.Println("Running database migrations...")

    err := DB.AutoMigrate(
        &models.User{},
        &models.UserSkill{},
        &models.Project{},
        &models.Bid{},
        &models.Selection{},
        &models.SelectionSkill{},
        &models.SelectedUser{},
        &models.BonusPool{},
        &models.EscrowWallet{},
        &models.LockedFund{},
        &models.EscrowAuditLog{},
        &models.Transaction{},
        &models.Withdrawal{},
        &models.BankAccount{},
        &models.Notification{},
    )

    if err != nil {
        log.Printf("Error migrating database: %v", err)
        return fmt.Errorf("failed to migrate database: %w", err)
    }

    log.Println("Database migration completed successfully")
    return nil
}
