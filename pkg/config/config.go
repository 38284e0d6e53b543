package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	ProjectName        string             `json:"project-name"`
	Role               string             `json:"role"`
	SubscriptionId     string             `json:"subscription-id"`
	Environment        string             `json:"environment"`
	Profile            string             `json:"profile"`
	Profiles           map[string]Profile `json:"profiles"`
	Backend            string             `json:"backend"`
	VerifySubscription bool               `json:"verify-subscription"`
	Strict             bool               `json:"strict"`
	CredentialValidity time.Duration      `json:"credential-validity"`
	Azure              AzureConfig        `json:"azure"`
	Debug              bool               `json:"debug"`
	LogFormat          string             `json:"log-format"`
}

// Profile is a named preset of provisioning values, typically one per
// target environment. Selected profile values fill in fields that were not
// set explicitly through flags or environment variables.
type Profile struct {
	ProjectName    string `json:"project-name"`
	Role           string `json:"role"`
	SubscriptionId string `json:"subscription-id"`
	Environment    string `json:"environment"`
}

type AzureConfig struct {
	TenantId     string `json:"tenant-id"`
	ClientId     string `json:"client-id"`
	ClientSecret string `json:"client-secret"`
}

// Backends
const (
	BackendAzureCLI = "azcli"
	BackendGraph    = "graph"
	BackendFake     = "fake"
)

// Configuration options
const (
	ProjectName        = "project-name"
	RoleName           = "role"
	SubscriptionId     = "subscription-id"
	EnvironmentName    = "environment"
	ProfileName        = "profile"
	Backend            = "backend"
	VerifySubscription = "verify-subscription"
	Strict             = "strict"
	CredentialValidity = "credential-validity"
	AzureTenantId      = "azure.tenant-id"
	AzureClientId      = "azure.client-id"
	AzureClientSecret  = "azure.client-secret"
	DebugEnabled       = "debug"
	LogFormat          = "log-format"
)

const envPrefix = "RBACERATOR"

var envKeyReplacer = strings.NewReplacer("-", "_", ".", "_")

func init() {
	// Automatically read configuration options from environment variables.
	// e.g. --subscription-id will be configurable using RBACERATOR_SUBSCRIPTION_ID.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(envKeyReplacer)

	// Read configuration file from working directory and/or /etc.
	// File formats supported include JSON, TOML, YAML, HCL, envfile and Java properties config files
	viper.SetConfigName("rbacerator")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/rbacerator")

	flag.String(ProjectName, "benmlops", "Project name used as the last fragment of the service principal display name")
	flag.String(RoleName, "Contributor", "RBAC role to grant to the service principal")
	flag.String(SubscriptionId, "", "ID of the subscription the role is scoped to")
	flag.String(EnvironmentName, "Dev", "Environment name used in the service principal display name. Convention: first letter capitalized")
	flag.String(ProfileName, "", "Named profile to read provisioning values from")
	flag.String(Backend, BackendAzureCLI, "Provisioning backend to use ('azcli', 'graph' or 'fake')")
	flag.Bool(VerifySubscription, false, "Verify that the subscription exists before provisioning")
	flag.Bool(Strict, false, "Treat naming convention findings as errors instead of warnings")
	flag.Duration(CredentialValidity, 365*24*time.Hour, "Lifetime of the password credential (graph backend only)")

	flag.String(AzureTenantId, "", "Tenant ID for Azure AD authentication (graph backend)")
	flag.String(AzureClientId, "", "Client ID for Azure AD authentication (graph backend)")
	flag.String(AzureClientSecret, "", "Client secret for Azure AD authentication (graph backend)")

	flag.Bool(DebugEnabled, false, "Debug mode toggle")
	flag.String(LogFormat, "text", "Log format ('text' or 'json')")
}

// Print out all configuration options except secret stuff.
func (c Config) Print(redacted []string) {
	ok := func(key string) bool {
		for _, forbiddenKey := range redacted {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = viper.AllKeys()

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			log.Debugf("%s: %s", key, viper.GetString(key))
		} else {
			log.Debugf("%s: ***REDACTED***", key)
		}
	}
}

func (c Config) Validate(required []string) error {
	missing := make([]string, 0)

	for _, key := range required {
		if len(viper.GetString(key)) == 0 {
			missing = append(missing, key)
		}
	}

	for _, key := range missing {
		log.Errorf("required key '%s' not configured", key)
	}
	if len(missing) > 0 {
		return errors.New("missing configuration values")
	}
	return nil
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

func New() (*Config, error) {
	var cfg Config

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	flag.Parse()

	err = viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&cfg, decoderHook)
	if err != nil {
		return nil, err
	}

	err = cfg.applyProfile()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyProfile overlays the selected profile onto fields that still hold
// their defaults. Explicit flag or environment values always win over the
// profile.
func (c *Config) applyProfile() error {
	if len(c.Profile) == 0 {
		return nil
	}

	profile, found := c.Profiles[c.Profile]
	if !found {
		return fmt.Errorf("profile '%s' not found in configuration", c.Profile)
	}

	overlay := func(key string, dst *string, value string) {
		if len(value) == 0 || explicitlySet(key) {
			return
		}
		*dst = value
		viper.Set(key, value)
	}

	overlay(ProjectName, &c.ProjectName, profile.ProjectName)
	overlay(RoleName, &c.Role, profile.Role)
	overlay(SubscriptionId, &c.SubscriptionId, profile.SubscriptionId)
	overlay(EnvironmentName, &c.Environment, profile.Environment)

	return nil
}

func explicitlySet(key string) bool {
	if f := flag.CommandLine.Lookup(key); f != nil && f.Changed {
		return true
	}

	envKey := envPrefix + "_" + envKeyReplacer.Replace(strings.ToUpper(key))
	_, present := os.LookupEnv(envKey)
	return present
}
