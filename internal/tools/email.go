package tools

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/agentd-io/agentd/domain"
	"github.com/agentd-io/agentd/internal/registry"
)

var emailSchema = map[string]any{
	"type":     "object",
	"required": []any{"to", "subject", "body"},
	"properties": map[string]any{
		"to":      map[string]any{"type": "string"},
		"subject": map[string]any{"type": "string"},
		"body":    map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

func registerEmail(reg *registry.Registry, deps Deps) {
	sendHandler := func(ctx context.Context, args map[string]any, ec *domain.ExecContext) (any, error) {
		if deps.SMTPAddr == "" || deps.SMTPFrom == "" {
			return nil, fmt.Errorf("email delivery is not configured")
		}
		to := args["to"].(string)
		subject := args["subject"].(string)
		body := args["body"].(string)

		msg := strings.Join([]string{
			"From: " + deps.SMTPFrom,
			"To: " + to,
			"Subject: " + subject,
			"",
			body,
		}, "\r\n")

		if err := smtp.SendMail(deps.SMTPAddr, nil, deps.SMTPFrom, []string{to}, []byte(msg)); err != nil {
			return nil, fmt.Errorf("failed to send email: %w", err)
		}
		return map[string]any{"to": to, "subject": subject, "sent": true}, nil
	}

	reg.Register(registry.New("send_email", "Send an email on the user's behalf. Requires approval.",
		emailSchema, sendHandler).
		WithApproval(&registry.ApprovalSpec{
			Message: func(args map[string]any, ec *domain.ExecContext) string {
				return fmt.Sprintf("Send email to %v with subject %q?", args["to"], args["subject"])
			},
			ExecuteTool: "execute_send_email",
		}))

	reg.Register(registry.New("execute_send_email", "Send a previously approved email.",
		emailSchema, sendHandler).AsHidden())
}
