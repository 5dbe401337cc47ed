package model

// CredentialSource names where the API credential was found.
type CredentialSource string

const (
	CredentialFromEnv   CredentialSource = "env"
	CredentialFromFile  CredentialSource = "file"
	CredentialFromStore CredentialSource = "store"
)

// Credential is the secret authorizing calls to the text-generation service.
// It is resolved once at startup and never rotated.
type Credential struct {
	Value  string
	Source CredentialSource
}

// String redacts the value so a Credential can be logged safely.
func (c Credential) String() string {
	return "credential(" + string(c.Source) + ")"
}
