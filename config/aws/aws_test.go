package aws

import (
	"os"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_REGION", "AWS_ENDPOINT_URL", "AWS_MAX_RETRIES"} {
		os.Unsetenv(k)
	}

	got := LoadConfigFromEnv()
	if got.Region != RegionUSEast1 {
		t.Errorf("expected region %q, got %q", RegionUSEast1, got.Region)
	}
	if got.EndpointURL != "http://localhost:4566" {
		t.Errorf("expected emulator endpoint, got %q", got.EndpointURL)
	}
	if got.AccessKey != "test" || got.SecretKey != "test" {
		t.Errorf("expected placeholder credentials, got %q/%q", got.AccessKey, got.SecretKey)
	}
	if got.MaxRetries != 3 {
		t.Errorf("expected 3 max retries, got %d", got.MaxRetries)
	}
}

func TestNewSession(t *testing.T) {
	cfg := Config{
		AccessKey:   "test",
		SecretKey:   "test",
		Region:      RegionUSEast1,
		EndpointURL: "http://localhost:4566",
		MaxRetries:  2,
	}

	_, acfg, err := cfg.NewSession()
	if err != nil {
		t.Fatalf("unexpected error creating session: %s", err)
	}
	if aws.StringValue(acfg.Endpoint) != cfg.EndpointURL {
		t.Errorf("expected endpoint %q, got %q", cfg.EndpointURL, aws.StringValue(acfg.Endpoint))
	}
	if aws.StringValue(acfg.Region) != RegionUSEast1 {
		t.Errorf("expected region %q, got %q", RegionUSEast1, aws.StringValue(acfg.Region))
	}
	if aws.IntValue(acfg.MaxRetries) != 2 {
		t.Errorf("expected 2 max retries, got %d", aws.IntValue(acfg.MaxRetries))
	}

	creds, err := acfg.Credentials.Get()
	if err != nil {
		t.Fatalf("unexpected error reading credentials: %s", err)
	}
	if creds.AccessKeyID != "test" {
		t.Errorf("expected static access key, got %q", creds.AccessKeyID)
	}

	cfg.EndpointURL = ""
	_, acfg, err = cfg.NewSession()
	if err != nil {
		t.Fatalf("unexpected error creating session: %s", err)
	}
	if acfg.Endpoint != nil {
		t.Errorf("expected no endpoint override, got %q", *acfg.Endpoint)
	}
}

func TestNewSessionRequiresRegion(t *testing.T) {
	if _, _, err := (Config{}).NewSession(); err == nil {
		t.Error("expected an error for a missing region")
	}
}
