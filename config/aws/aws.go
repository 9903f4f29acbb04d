package aws // import "github.com/davidcode/streamtap/config/aws"

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/davidcode/streamtap/config"
)

const (
	// RegionUSEast1 is a helper constant for AWS configs.
	RegionUSEast1 = "us-east-1"
	// RegionUSWest is a helper constant for AWS configs.
	RegionUSWest = "us-west-1"
)

// Config holds common AWS credentials and keys. The defaults point at a
// local emulator (localstack) with its placeholder credentials.
type Config struct {
	AccessKey       string `envconfig:"AWS_ACCESS_KEY" default:"test"`
	MFASerialNumber string `envconfig:"AWS_MFA_SERIAL_NUMBER"`
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	RoleARN         string `envconfig:"AWS_ROLE_ARN"`
	SecretKey       string `envconfig:"AWS_SECRET_KEY" default:"test"`
	SessionToken    string `envconfig:"AWS_SESSION_TOKEN"`
	// EndpointURL is an optional endpoint URL (hostname only or fully qualified URI)
	// that overrides the default endpoint for a client. Set it to "" to use
	// the real AWS endpoint for the region.
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL" default:"http://localhost:4566"`
	// MaxRetries is handed to the SDK's default retryer. Nothing above the
	// SDK retries on its own.
	MaxRetries int `envconfig:"AWS_MAX_RETRIES" default:"3"`
}

// LoadConfigFromEnv will attempt to load the Config struct
// from environment variables.
func LoadConfigFromEnv() Config {
	var aws Config
	config.LoadEnvConfig(&aws)
	return aws
}

// NewSession will create an AWS session along with the client config
// every service client should be built with. Static keys win over RoleARN;
// with neither set, the SDK's default credential chain is used.
func (c Config) NewSession() (*session.Session, *aws.Config, error) {
	if c.Region == "" {
		return nil, nil, errors.New("AWS region is required")
	}

	sess, err := session.NewSession()
	if err != nil {
		return nil, nil, err
	}

	var creds *credentials.Credentials
	if c.AccessKey != "" {
		creds = credentials.NewStaticCredentials(c.AccessKey, c.SecretKey, c.SessionToken)
	} else if c.RoleARN != "" {
		creds, err = requestRoleCredentials(sess, c.RoleARN, c.MFASerialNumber)
		if err != nil {
			return nil, nil, err
		}
	}

	acfg := &aws.Config{
		Credentials: creds,
		Region:      aws.String(c.Region),
		MaxRetries:  aws.Int(c.MaxRetries),
	}
	if c.EndpointURL != "" {
		acfg.Endpoint = aws.String(c.EndpointURL)
	}
	return sess, acfg, nil
}

// requestRoleCredentials return the credentials from AssumeRoleProvider to assume the role
// referenced by the roleARN. If MFASerialNumber is specified, prompt for MFA token from stdin.
func requestRoleCredentials(sess *session.Session, roleARN string, MFASerialNumber string) (*credentials.Credentials, error) {
	if roleARN == "" {
		return nil, errors.New("role ARN is required")
	}

	return stscreds.NewCredentials(sess, roleARN, func(provider *stscreds.AssumeRoleProvider) {
		if MFASerialNumber != "" {
			provider.SerialNumber = &MFASerialNumber
			provider.TokenProvider = stscreds.StdinTokenProvider
		}
	}), nil
}
