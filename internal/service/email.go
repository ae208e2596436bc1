package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"aluko-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error {
	subject := fmt.Sprintf("New rental request: %s", listingTitle)
	plain := fmt.Sprintf("%s wants to rent your %s. Open the app to approve or decline the request.", renterName, listingTitle)
	return s.send(ctx, ownerEmail, subject, plain)
}

func (s *sendGridEmailService) SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, renterCode string) error {
	subject := fmt.Sprintf("Request approved: %s", listingTitle)
	plain := fmt.Sprintf("Your rental of %s was approved. Show code %s to the owner at pickup.", listingTitle, renterCode)
	return s.send(ctx, renterEmail, subject, plain)
}

func (s *sendGridEmailService) SendRentalRejectionNotification(ctx context.Context, renterEmail, listingTitle, reason string) error {
	subject := fmt.Sprintf("Request declined: %s", listingTitle)
	plain := fmt.Sprintf("Your rental request for %s was declined.\n\nReason: %s", listingTitle, reason)
	return s.send(ctx, renterEmail, subject, plain)
}

func (s *sendGridEmailService) send(ctx context.Context, to, subject, plainText string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}
