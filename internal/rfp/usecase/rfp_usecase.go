package usecase

import (
	"context"
	"fmt"
	"strings"

	proposaldomain "rfp-backend/internal/proposal/domain"
	proposalrepo "rfp-backend/internal/proposal/repository"
	"rfp-backend/internal/rfp/domain"
	"rfp-backend/internal/rfp/repository"
	"rfp-backend/pkg/ai"
)

// MailDispatcher is the slice of the mail service the RFP flow needs.
type MailDispatcher interface {
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
}

// RFPUsecase covers the outbound half of the system: free text to structured
// RFP, and RFP to tagged vendor invitation emails.
type RFPUsecase interface {
	// ParseRequest returns the model's raw RFP JSON text; the caller parses it
	ParseRequest(ctx context.Context, rfpText string) (string, error)

	// CreateAndSend persists the RFP and emails it to every vendor
	CreateAndSend(ctx context.Context, rfp *domain.RFP, vendorEmails []string) (*domain.RFP, error)

	GetByID(id string) (*domain.RFP, error)
	ListProposals(rfpID string) ([]*proposaldomain.Proposal, error)
}

type rfpUsecase struct {
	rfps      repository.RFPRepository
	proposals proposalrepo.ProposalRepository
	extractor ai.ExtractorService
	mail      MailDispatcher
}

func NewRFPUsecase(rfps repository.RFPRepository, proposals proposalrepo.ProposalRepository, extractor ai.ExtractorService, mail MailDispatcher) RFPUsecase {
	return &rfpUsecase{
		rfps:      rfps,
		proposals: proposals,
		extractor: extractor,
		mail:      mail,
	}
}

func (u *rfpUsecase) ParseRequest(ctx context.Context, rfpText string) (string, error) {
	return u.extractor.ExtractRequest(ctx, rfpText)
}

func (u *rfpUsecase) CreateAndSend(ctx context.Context, rfp *domain.RFP, vendorEmails []string) (*domain.RFP, error) {
	if rfp.Status == "" {
		rfp.Status = domain.RFPStatusActive
	}
	if err := u.rfps.Create(rfp); err != nil {
		return nil, err
	}

	// Subject tagging: vendor replies are matched back to the RFP by this tag
	subject := fmt.Sprintf("[RFP-%s] Request for Proposal: %s", rfp.ID, rfp.Title)
	html := generateEmailHTML(rfp, "Vendor")

	for _, email := range vendorEmails {
		if err := u.mail.SendHTML(ctx, email, subject, html); err != nil {
			return nil, fmt.Errorf("unable to send RFP to %s: %w", email, err)
		}
	}

	return rfp, nil
}

func (u *rfpUsecase) GetByID(id string) (*domain.RFP, error) {
	return u.rfps.FindByID(id)
}

func (u *rfpUsecase) ListProposals(rfpID string) ([]*proposaldomain.Proposal, error) {
	return u.proposals.FindByRFPID(rfpID)
}

func generateEmailHTML(rfp *domain.RFP, vendorName string) string {
	var rows strings.Builder
	for _, item := range rfp.Items {
		rows.WriteString(fmt.Sprintf(`
          <tr>
            <td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
            <td style="padding: 10px; border-bottom: 1px solid #eee;">%d</td>
            <td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
          </tr>`, item.Name, item.Quantity, item.Specs))
	}

	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; border: 1px solid #ddd; padding: 20px; max-width: 600px;">
      <h2 style="color: #2c5282;">Request for Proposal: %s</h2>
      <p style="color: #718096; font-size: 12px;">REF: %s</p>
      <hr />
      <p>Hello <strong>%s</strong>,</p>
      <p>We invite you to bid on the following requirements:</p>

      <table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
        <tr style="background: #f7fafc; text-align: left;">
          <th style="padding: 10px; border-bottom: 2px solid #ddd;">Item</th>
          <th style="padding: 10px; border-bottom: 2px solid #ddd;">Qty</th>
          <th style="padding: 10px; border-bottom: 2px solid #ddd;">Specs</th>
        </tr>%s
      </table>

      <div style="background: #ebf8ff; padding: 15px; border-radius: 5px; color: #2b6cb0;">
        <strong>Instructions:</strong> Please reply to this email with your quote attached or in the body.
      </div>
    </div>`, rfp.Title, rfp.ID, vendorName, rows.String())
}
