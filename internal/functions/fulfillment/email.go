package fulfillment

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// Mailer delivers the recommendation email.
type Mailer interface {
	SendRecommendations(ctx context.Context, toEmail, cuisine string, restaurants []*models.RestaurantRecord) error
}

// SESAPI narrows the email client to the one call this package makes.
type SESAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SESMailer struct {
	client SESAPI
	sender string
}

func NewSESMailer(client SESAPI, sender string) *SESMailer {
	return &SESMailer{client: client, sender: sender}
}

func (m *SESMailer) SendRecommendations(ctx context.Context, toEmail, cuisine string, restaurants []*models.RestaurantRecord) error {
	subject := fmt.Sprintf("Your %s Restaurant Recommendations", cuisine)

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(composeBody(cuisine, restaurants))},
			},
		},
	})
	if err != nil {
		return cerrors.NewNotificationSendFailedError("email", fmt.Errorf("send recommendations to %s: %w", toEmail, err))
	}
	return nil
}

// composeBody builds the plain-text recommendation list.
func composeBody(cuisine string, restaurants []*models.RestaurantRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello!\n\nHere are some recommended %s restaurants for you:\n\n", cuisine)

	for i, r := range restaurants {
		name := r.Name
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		fmt.Fprintf(&b, "  Address: %s\n", orDefault(r.Address, "N/A"))
		fmt.Fprintf(&b, "  Rating: %s (%d reviews)\n", orDefault(r.Rating, "N/A"), r.NumReviews)
		fmt.Fprintf(&b, "  Zip Code: %s\n\n", orDefault(r.ZipCode, "N/A"))
	}

	b.WriteString("Enjoy your meal!\n\n- Your Dining Bot")
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
