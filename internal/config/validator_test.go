package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	azfleeterrors "github.com/steve-rackham/azfleet/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Subscription: "1b2c3d4e-0000-4000-8000-000000000001",
		Fleet: Fleet{
			ResourceGroups: []string{"rg-prod", "rg-data"},
			TagSelector:    "env=prod",
		},
		Settings: Settings{Parallel: 8, Timeout: 300},
	}
}

func requireValidationError(t *testing.T, err error, fragment string) {
	t.Helper()

	require.Error(t, err)
	var validationErr *azfleeterrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Error(), fragment)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid configuration", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, ValidateConfig(validConfig()))
	})

	t.Run("rejects nil configuration", func(t *testing.T) {
		t.Parallel()
		requireValidationError(t, ValidateConfig(nil), "nil")
	})

	t.Run("rejects duplicate resource groups ignoring case", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Fleet.ResourceGroups = []string{"rg-prod", "RG-Prod"}
		requireValidationError(t, ValidateConfig(cfg), "duplicate resource group")
	})

	t.Run("rejects malformed resource group names", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Fleet.ResourceGroups = []string{"rg-prod", "ends-with-period."}
		requireValidationError(t, ValidateConfig(cfg), "resource_group")
	})

	t.Run("rejects malformed tag selectors", func(t *testing.T) {
		t.Parallel()
		for _, selector := range []string{"env", "=prod", "env=", "="} {
			cfg := validConfig()
			cfg.Fleet.TagSelector = selector
			requireValidationError(t, ValidateConfig(cfg), "tag_selector")
		}
	})

	t.Run("requires workspace id when key is set", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Agent.WorkspaceKey = "c2VjcmV0"
		requireValidationError(t, ValidateConfig(cfg), "workspaceid")
	})

	t.Run("rejects out-of-range parallelism", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Settings.Parallel = 65
		requireValidationError(t, ValidateConfig(cfg), "parallel")
	})

	t.Run("rejects malformed pushgateway url", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Telemetry.Pushgateway = "::not-a-url"
		requireValidationError(t, ValidateConfig(cfg), "pushgateway")
	})
}
