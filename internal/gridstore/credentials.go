package gridstore

import "encoding/json"

// Credentials is the uploaded service-account JSON. Only ClientEmail is
// interpreted here: it is shown to the operator so the workbook folder can be
// shared with the service identity.
type Credentials struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ParseCredentials validates an uploaded credentials file. Malformed JSON and
// a missing client_email both surface as an AuthError.
func ParseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, &AuthError{Reason: "malformed credentials file", Err: err}
	}
	if creds.ClientEmail == "" {
		return nil, &AuthError{Reason: "credentials file has no client_email"}
	}
	return &creds, nil
}
