package credentials_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmlops/rbacerator/pkg/azure/credentials"
)

func TestJSONShapeMatchesAzureCLI(t *testing.T) {
	creds := credentials.Credentials{
		AppID:       "87ab68a8-34ba-4ee3-9d81-9d7a5e1997d5",
		DisplayName: "Azure-ARM-Dev-benmlops",
		Password:    "some-generated-password",
		Tenant:      "a7f0e4f7-0ab9-4b5a-97b4-b6d2e69419e6",
	}

	out, err := json.Marshal(creds)

	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"appId": "87ab68a8-34ba-4ee3-9d81-9d7a5e1997d5",
		"displayName": "Azure-ARM-Dev-benmlops",
		"password": "some-generated-password",
		"tenant": "a7f0e4f7-0ab9-4b5a-97b4-b6d2e69419e6"
	}`, string(out))
}

func TestRedacted(t *testing.T) {
	creds := credentials.Credentials{
		AppID:       "87ab68a8-34ba-4ee3-9d81-9d7a5e1997d5",
		DisplayName: "Azure-ARM-Dev-benmlops",
		Password:    "some-generated-password",
		Tenant:      "a7f0e4f7-0ab9-4b5a-97b4-b6d2e69419e6",
	}

	redacted := creds.Redacted()

	assert.Equal(t, "***REDACTED***", redacted.Password)
	assert.Equal(t, creds.AppID, redacted.AppID)
	assert.Equal(t, creds.DisplayName, redacted.DisplayName)
	assert.Equal(t, creds.Tenant, redacted.Tenant)
	// original is untouched
	assert.Equal(t, "some-generated-password", creds.Password)
}
