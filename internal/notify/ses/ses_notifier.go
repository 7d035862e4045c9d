package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"concil/internal/domain"
	"concil/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESNotifier creates a new SES-backed ReviewNotifier.
func NewSESNotifier(region, fromAddress, fromName, toAddress string) (port.ReviewNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesNotifier{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		toAddress:   toAddress,
	}, nil
}

func (s *sesNotifier) NotifyReview(ctx context.Context, batch *domain.Batch) error {
	result := batch.Correlation
	if result == nil {
		return nil
	}

	subject := fmt.Sprintf("[Conciliação] Lote %s requer revisão: %s", shortID(batch), result.Status)
	htmlBody := buildReviewHTML(batch)
	textBody := buildReviewText(batch)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func shortID(batch *domain.Batch) string {
	id := batch.ID.String()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func buildReviewText(batch *domain.Batch) string {
	result := batch.Correlation
	var b strings.Builder
	fmt.Fprintf(&b, "Lote %s\n", batch.ID)
	if batch.Email != nil && batch.Email.Subject != "" {
		fmt.Fprintf(&b, "Assunto: %s\n", batch.Email.Subject)
	}
	fmt.Fprintf(&b, "Status: %s\n", result.Status)
	fmt.Fprintf(&b, "Notas: %.2f / Boletos: %.2f / Diferença: %.2f\n",
		result.NoteAmount, result.SlipAmount, result.Discrepancy)
	if result.Explanation != "" {
		fmt.Fprintf(&b, "Motivo: %s\n", result.Explanation)
	}
	fmt.Fprintf(&b, "\nDocumentos (%d):\n", len(batch.Documents))
	for _, doc := range batch.Documents {
		fmt.Fprintf(&b, "  - %s [%s] %s %.2f\n", doc.SourceFile, doc.Kind, doc.SupplierName, doc.TotalAmount)
	}
	return b.String()
}

func buildReviewHTML(batch *domain.Batch) string {
	result := batch.Correlation
	var rows strings.Builder
	for _, doc := range batch.Documents {
		fmt.Fprintf(&rows,
			`<tr><td style="padding:4px 8px;">%s</td><td style="padding:4px 8px;">%s</td><td style="padding:4px 8px;">%s</td><td style="padding:4px 8px;text-align:right;">%.2f</td></tr>`,
			doc.SourceFile, doc.Kind, doc.SupplierName, doc.TotalAmount)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Lote requer revisão: %s</h2>
  <p>Lote <strong>%s</strong></p>
  <p>Notas: %.2f &mdash; Boletos: %.2f &mdash; Diferença: %.2f</p>
  <p>%s</p>
  <table style="border-collapse: collapse; width: 100%%;" border="1">
    <tr><th style="padding:4px 8px;">Arquivo</th><th style="padding:4px 8px;">Tipo</th><th style="padding:4px 8px;">Fornecedor</th><th style="padding:4px 8px;">Valor</th></tr>
    %s
  </table>
</body>
</html>`, result.Status, batch.ID, result.NoteAmount, result.SlipAmount, result.Discrepancy, result.Explanation, rows.String())
}
