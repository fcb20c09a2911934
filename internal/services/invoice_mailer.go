package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

// InvoiceMailer delivers a rendered document to a recipient on behalf
// of the issuing organisation.
type InvoiceMailer interface {
	SendInvoice(ctx context.Context, to, orgName string, doc *models.InvoiceDocument) error
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
}

// NewSendGridMailer returns nil when no API key is configured; callers
// treat a nil mailer as "sending disabled".
func NewSendGridMailer(apiKey, fromEmail string) InvoiceMailer {
	if apiKey == "" {
		return nil
	}
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (m *sendGridMailer) SendInvoice(ctx context.Context, to, orgName string, doc *models.InvoiceDocument) error {
	subject := doc.DocumentNumber
	if orgName != "" {
		subject = fmt.Sprintf("%s from %s", doc.DocumentNumber, orgName)
	}
	plain := fmt.Sprintf(
		"Please find %s dated %s.\n\nSubtotal: %s\nGST: %s\nTotal due: %s\n",
		doc.DocumentNumber,
		doc.IssueDate.Format("2 Jan 2006"),
		doc.SubTotal.StringFixed(2),
		doc.GSTTotal.StringFixed(2),
		doc.Total.StringFixed(2),
	)

	message := mail.NewSingleEmail(
		mail.NewEmail("", m.fromEmail),
		subject,
		mail.NewEmail("", to),
		plain,
		"",
	)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		utils.Logger.WithError(err).Error("SendGrid send failed")
		return utils.ErrExternalServiceFailure
	}
	if resp.StatusCode >= 400 {
		utils.Logger.WithField("status", resp.StatusCode).Error("SendGrid rejected message")
		return utils.ErrExternalServiceFailure
	}

	utils.Logger.WithField("document", doc.DocumentNumber).Info("Invoice email sent")
	return nil
}
