package azure

// Request describes a single service principal to be provisioned.
type Request struct {
	// Name is the derived display name, e.g. 'Azure-ARM-Dev-benmlops'.
	Name DisplayName
	// Role is the RBAC role to grant, e.g. 'Contributor'.
	Role string
	// Scope is the ARM resource path the role applies to, e.g.
	// '/subscriptions/<id>'.
	Scope string
}
