// Package ses sends mail through Amazon SES v2.
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"gitlab.com/verimail/otp-backend/internal/domain/valueobject/mails"
)

type Client struct {
	sesClient *sesv2.Client
	sender    string
}

// NewClient builds a SES client. accessKey and secretKey may be empty, in
// which case the default credential chain is used (instance role, env vars).
func NewClient(ctx context.Context, accessKey, secretKey, region, sender string) (*Client, error) {
	const op = "ses.NewClient"

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		sesClient: sesv2.NewFromConfig(cfg),
		sender:    sender,
	}, nil
}

func (c *Client) SendMail(ctx context.Context, payload mails.Payload) error {
	const op = "ses.Client.SendMail"

	_, err := c.sesClient.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.sender),
		Destination: &types.Destination{
			ToAddresses: []string{payload.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(payload.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(payload.Body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
