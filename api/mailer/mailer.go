package mailer

import (
	"fmt"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	SendPasswordReset(toEmail, token, appURL string) (*EmailResponse, error)
}

type EmailResponse struct {
	Status   int
	RespBody string
}

type sendGridMailer struct {
	apiKey    string
	fromName  string
	fromEmail string
}

func NewSendGridMailer() Mailer {
	return &sendGridMailer{
		apiKey:    os.Getenv("SENDGRID_API_KEY"),
		fromName:  "Warbler",
		fromEmail: os.Getenv("SENDGRID_FROM"),
	}
}

func (m *sendGridMailer) SendPasswordReset(toEmail, token, appURL string) (*EmailResponse, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("SENDGRID_API_KEY not set")
	}

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "Warbler",
			Link: appURL,
		},
	}
	email := hermes.Email{
		Body: hermes.Body{
			Name:   toEmail,
			Intros: []string{"You requested a password reset for your Warbler account."},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to choose a new password:",
					Button: hermes.Button{
						Color: "#1DA1F2",
						Text:  "Reset your password",
						Link:  fmt.Sprintf("%s/password/reset?token=%s", appURL, token),
					},
				},
			},
			Outros: []string{"If you did not request a password reset, no action is required."},
		},
	}
	body, err := h.GenerateHTML(email)
	if err != nil {
		return nil, err
	}

	from := sgmail.NewEmail(m.fromName, m.fromEmail)
	to := sgmail.NewEmail(toEmail, toEmail)
	message := sgmail.NewSingleEmail(from, "Reset your Warbler password", to, "", body)
	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return nil, err
	}
	return &EmailResponse{Status: response.StatusCode, RespBody: response.Body}, nil
}
