package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/entity"
	"github.com/KOSTA-SoftwareCampus-Bundang/softwarecampus-backend-sub001/internal/utils"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

type codeTemplate struct {
	Subject string
	HTML    string
	Text    string
}

// Subject and body selection lives here at the gateway boundary; the policy
// never sees purposes as anything but an opaque scope key.
var codeTemplates = map[entity.VerificationPurpose]codeTemplate{
	entity.PurposeSignup: {
		Subject: "Confirm your Software Campus registration",
		HTML:    "<p>Your registration verification code is</p><h2>%s</h2><p>The code expires in 3 minutes.</p>",
		Text:    "Your registration verification code is %s. The code expires in 3 minutes.",
	},
	entity.PurposePasswordReset: {
		Subject: "Reset your Software Campus password",
		HTML:    "<p>Your password reset verification code is</p><h2>%s</h2><p>The code expires in 3 minutes.</p>",
		Text:    "Your password reset verification code is %s. The code expires in 3 minutes.",
	},
	entity.PurposePasswordChange: {
		Subject: "Confirm your password change",
		HTML:    "<p>Your password change verification code is</p><h2>%s</h2><p>The code expires in 3 minutes.</p>",
		Text:    "Your password change verification code is %s. The code expires in 3 minutes.",
	},
}

// ResendGateway delivers verification codes through the Resend API. It does
// not retry; a failed send is the caller's problem to surface.
type ResendGateway struct {
	client *resend.Client
	from   string
}

func NewResendGateway(apiKey string, from string) (*ResendGateway, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return nil, errors.New("resend gateway requires an api key and a from address")
	}
	return &ResendGateway{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

func (g *ResendGateway) Send(ctx context.Context, to string, code string, purpose entity.VerificationPurpose) error {
	template, ok := codeTemplates[purpose]
	if !ok {
		return entity.ErrUnknownPurpose
	}

	_, err := g.client.Emails.Send(&resend.SendEmailRequest{
		From:    g.from,
		To:      []string{to},
		Subject: template.Subject,
		Html:    fmt.Sprintf(template.HTML, code),
		Text:    fmt.Sprintf(template.Text, code),
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// LogGateway writes codes to the log instead of sending mail. Local
// development only.
type LogGateway struct {
	Logger *logrus.Logger
}

func (g LogGateway) Send(_ context.Context, to string, code string, purpose entity.VerificationPurpose) error {
	logger := g.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"to":      utils.MaskEmail(to),
		"purpose": purpose,
		"code":    code,
	}).Info("verification code issued (log gateway)")
	return nil
}
