package config

import "testing"

func setCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRADEME_CONSUMER_KEY", "ck")
	t.Setenv("TRADEME_CONSUMER_SECRET", "cs")
	t.Setenv("TRADEME_ACCESS_TOKEN", "at")
	t.Setenv("TRADEME_TOKEN_SECRET", "ts")
}

func TestLoadDefaults(t *testing.T) {
	setCredentialEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://api.tmsandbox.co.nz/v1/" {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.Format != "json" {
		t.Fatalf("Format = %s", cfg.Format)
	}
	if cfg.ProbeListingID != 2149713054 {
		t.Fatalf("ProbeListingID = %d", cfg.ProbeListingID)
	}
	if cfg.HTTPTimeout.Seconds() != 15 {
		t.Fatalf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	creds := cfg.Credentials()
	if creds.ConsumerKey != "ck" || creds.TokenSecret != "ts" {
		t.Fatalf("credentials not mapped: %+v", creds)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	t.Setenv("TRADEME_CONSUMER_KEY", "ck")
	t.Setenv("TRADEME_CONSUMER_SECRET", "")
	t.Setenv("TRADEME_ACCESS_TOKEN", "at")
	t.Setenv("TRADEME_TOKEN_SECRET", "ts")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing consumer secret")
	}
}

func TestLoadRejectsBadListingID(t *testing.T) {
	setCredentialEnv(t)
	t.Setenv("PROBE_LISTING_ID", "-1")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative listing id")
	}
}
