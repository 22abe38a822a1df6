// File: /services/email_service.go
package services

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"tabor-blooms-api/config"
	"tabor-blooms-api/models"
)

// EmailService notifies the neighborhood moderator about submissions
// that want attention: ID-help requests and frost warnings. Sending is
// fire-and-forget; a mail failure never fails the request that
// triggered it.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewEmailService(cfg *config.Config, logger *zap.Logger) *EmailService {
	var dialer *gomail.Dialer
	if cfg.SMTPHost != "" {
		dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}

	return &EmailService{
		config: cfg,
		dialer: dialer,
		logger: logger,
	}
}

// Enabled reports whether notifications are configured at all.
func (es *EmailService) Enabled() bool {
	return es.dialer != nil && es.config.ModeratorEmail != ""
}

// NotifyNewPost alerts the moderator about a fresh post when it asks
// for ID help or reports a frost warning. Other posts are not mailed.
func (es *EmailService) NotifyNewPost(post models.Post) {
	if !es.Enabled() {
		return
	}
	if !post.NeedsIDHelp && post.PostType != models.PostTypeFrostWarning {
		return
	}

	subject := fmt.Sprintf("New post: %s", post.DisplayTitle())
	body := fmt.Sprintf("%s posted %q", post.DisplayName, post.DisplayTitle())
	if post.PostType == models.PostTypeFrostWarning && post.Temperature != nil {
		subject = fmt.Sprintf("Frost warning: %d°F", *post.Temperature)
		body = fmt.Sprintf("%s reported a frost warning of %d°F", post.DisplayName, *post.Temperature)
	} else if post.NeedsIDHelp {
		subject = fmt.Sprintf("ID help wanted: %s", post.DisplayTitle())
	}

	go func() {
		m := gomail.NewMessage()
		m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
		m.SetHeader("To", es.config.ModeratorEmail)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := es.dialer.DialAndSend(m); err != nil {
			es.logger.Warn("moderator notification failed",
				zap.String("post_id", post.ID), zap.Error(err))
		}
	}()
}
