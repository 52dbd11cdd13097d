package services

import (
    "fmt"
    "log"
    "os"

    "github.com/resend/resend-go/v2"
)

type EmailService struct {
    Client *resend.Client
    From   string
}

func NewEmailService() *EmailService {
    apiKey := os.Getenv("RESEND_API_KEY")
    fromEmail := os.Getenv("FROM_EMAIL")

    if fromEmail == "" {
        fromEmail = "onboarding@resend.dev" // Resend's default test email
    }

    client := resend.NewClient(apiKey)

    return &EmailService{
        Client: client,
        From:   fromEmail,
    }
}

// SendSelectionEmail tells a contributor they were selected for a project
func (es *EmailService) SendSelectionEmail(to, projectTitle string) error {
    htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>You've been selected!</h2>
        <p>Congratulations, you were chosen as a contributor for <strong>%s</strong>.</p>
        <p>Your payment and bonus share will be held safely in escrow until the project is completed.</p>
        <p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
    `, projectTitle)

    params := &resend.SendEmailRequest{
        From:    es.From,
        To:      []string{to},
        Subject: "BidVault - You Were Selected",
        Html:    htmlBody,
    }

    sent, err := es.Client.Emails.Send(params)
    if err != nil {
        return fmt.Errorf("failed to send email: %v", err)
    }

    log.Printf("Selection email sent to %s (ID: %s)", to, sent.Id)
    return nil
}

// SendWithdrawalEmail confirms a processed withdrawal
func (es *EmailService) SendWithdrawalEmail(to string, amount float64, bankName string) error {
    htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Withdrawal Processed</h2>
        <p>₹%.2f is on its way to your %s account.</p>
        <p>Transfers usually complete within 24 hours.</p>
        <p style="font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
    `, amount, bankName)

    params := &resend.SendEmailRequest{
        From:    es.From,
        To:      []string{to},
        Subject: "BidVault - Withdrawal Processed",
        Html:    htmlBody,
    }

    sent, err := es.Client.Emails.Send(params)
    if err != nil {
        return fmt.Errorf("failed to send email: %v", err)
    }

    log.Printf("Withdrawal email sent to %s (ID: %s)", to, sent.Id)
    return nil
}
