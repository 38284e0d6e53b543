// Package naming implements the display name and scope conventions for
// provisioned service principals.
package naming

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// Prefix for all derived service principal display names.
const Prefix = "Azure-ARM"

// ServicePrincipalName derives the display name from the environment and
// project name, as Azure-ARM-<Environment>-<Project>. Inputs are used
// verbatim; the derivation is independent of the subscription.
func ServicePrincipalName(environment, project string) string {
	return fmt.Sprintf("%s-%s-%s", Prefix, environment, project)
}

// SubscriptionScope returns the ARM scope path for a subscription, without
// a trailing slash.
func SubscriptionScope(subscriptionId string) string {
	return "/subscriptions/" + subscriptionId
}

// Lint reports convention violations as human-readable findings. It never
// rejects or rewrites a value; callers decide whether findings are warnings
// or fatal.
func Lint(environment, project, subscriptionId, role string) []string {
	findings := make([]string, 0)

	if len(project) == 0 {
		findings = append(findings, "project name is empty")
	}

	if len(role) == 0 {
		findings = append(findings, "role name is empty")
	}

	if len(environment) == 0 {
		findings = append(findings, "environment is empty")
	} else {
		first, _ := utf8.DecodeRuneInString(environment)
		if !unicode.IsUpper(first) {
			findings = append(findings, fmt.Sprintf("environment '%s' should have its first letter capitalized", environment))
		}
	}

	if !govalidator.IsUUID(subscriptionId) {
		findings = append(findings, fmt.Sprintf("subscription id '%s' is not a UUID", subscriptionId))
	}

	return findings
}
