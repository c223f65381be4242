package credentials

// Account is one stored set of credentials for a remote storage tenant.
type Account struct {
	// ID is the local identifier, unique within the store.
	ID string `json:"id" yaml:"id"`
	// Name is a display label.
	Name string `json:"name" yaml:"name"`
	// AccountID is the remote tenant identifier.
	AccountID string `json:"account_id" yaml:"account_id"`
	// AccessKeyID is the public credential component.
	AccessKeyID string `json:"access_key_id" yaml:"access_key_id"`
	// SecretAccessKey never reaches the accounts file.
	SecretAccessKey string `json:"-" yaml:"-"`
}

// AccountInfo is the listing projection of an Account. It carries no
// credential material.
type AccountInfo struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	AccountID string `json:"account_id" yaml:"account_id"`
}

// Info projects a for listings.
func (a Account) Info() AccountInfo {
	return AccountInfo{ID: a.ID, Name: a.Name, AccountID: a.AccountID}
}

// accountsFile is the on-disk layout of the accounts file.
type accountsFile struct {
	Accounts []Account `json:"accounts"`
}
