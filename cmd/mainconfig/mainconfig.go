package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so both binaries share the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case s3.ServiceID, sesv2.ServiceID:
					return aws.Endpoint{
						URL:           endpoint,
						PartitionID:   "aws",
						SigningRegion: cfg.AWSRegion,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// NeedsAWS reports whether any configured component talks to AWS.
func NeedsAWS(cfg *appconfig.Config) bool {
	if cfg.ModelS3Bucket != "" && cfg.ModelS3Key != "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(cfg.EmailProvider)) {
	case "ses":
		return true
	case "auto", "":
		return cfg.SendGridAPIKey == "" && cfg.MailerSendAPIKey == "" && cfg.EmailFromAddress != ""
	}
	return false
}

// Clients are the AWS service clients the webhook uses.
type Clients struct {
	S3  *s3.Client
	SES *sesv2.Client
}

// NewClients builds the S3 and SES clients. LocalStack needs path-style S3
// addressing, so it is enabled whenever an endpoint override is set.
func NewClients(awsCfg aws.Config, cfg *appconfig.Config) Clients {
	pathStyle := cfg.AWSEndpointOverride != ""
	return Clients{
		S3: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = pathStyle
		}),
		SES: sesv2.NewFromConfig(awsCfg),
	}
}
