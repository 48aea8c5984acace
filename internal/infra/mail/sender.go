package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-prospecting/internal/usecase"
)

//go:embed templates/campaign_summary.txt
var templatesFS embed.FS

var summaryTemplate = template.Must(template.ParseFS(templatesFS, "templates/campaign_summary.txt"))

var ErrNoRecipient = errors.New("destinatário do resumo não configurado")

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	if from == "" {
		from = "nao-responda@liguemedicina.com"
	}
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
	s.send = func(m *gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m)
	}
	return s
}

func (s *EmailSender) SendCampaignSummary(ctx context.Context, summary usecase.CampaignSummary) error {
	if s.To == "" {
		return ErrNoRecipient
	}

	m, err := s.buildSummaryMessage(summary)
	if err != nil {
		return err
	}

	// gomail não aceita context; respeitamos o cancelamento antes de discar
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) buildSummaryMessage(summary usecase.CampaignSummary) (*gomail.Message, error) {
	data := CampaignSummaryEmailData{
		TenantID:     summary.TenantID,
		RunID:        summary.RunID,
		Criteria:     summary.Criteria,
		Found:        summary.Found,
		Processed:    summary.Processed,
		ChannelValid: summary.ChannelValid,
		MessagesSent: summary.MessagesSent,
		QuotaUsed:    summary.QuotaUsed,
		DailyCap:     summary.DailyCap,
		EndReason:    summary.EndReason,
		Duration:     summary.Duration.Round(time.Second).String(),
	}

	var body bytes.Buffer
	if err := summaryTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Prospecção %s: %d mensagens enviadas (%s)",
		summary.TenantID, summary.MessagesSent, summary.EndReason))
	m.SetBody("text/plain", body.String())
	return m, nil
}
