package credentials

// Credentials is the credential material for a provisioned service
// principal. The JSON shape matches the output of
// `az ad sp create-for-rbac --output json`.
type Credentials struct {
	AppID       string `json:"appId"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Tenant      string `json:"tenant"`
}

const redacted = "***REDACTED***"

// Redacted returns a copy that is safe to log.
func (c Credentials) Redacted() Credentials {
	c.Password = redacted
	return c
}
