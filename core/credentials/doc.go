// Package credentials persists storage accounts for the R2 Explorer.
//
// Account metadata (id, display name, remote account id, access key id) is
// kept in a pretty-printed JSON file, by default
// <UserConfigDir>/r2-explorer/config.json:
//
//	{
//	  "accounts": [
//	    {"id": "...", "name": "...", "account_id": "...", "access_key_id": "..."}
//	  ]
//	}
//
// Secret access keys never touch that file. They live in a SecretStore,
// which in production is the OS keyring (github.com/zalando/go-keyring),
// keyed by the local account id.
//
// # Consistency
//
// A Store serialises every read-modify-write cycle with a mutex and an
// advisory file lock (github.com/gofrs/flock) on "config.json.lock". The
// file is replaced atomically via a temp file and rename, so readers never
// observe a partial write.
//
// # Usage
//
//	store, err := credentials.New(cfg.Credentials, logger)
//	if err != nil {
//	    return err
//	}
//	err = store.SaveAccount(credentials.Account{ID: "main", AccountID: "abc", ...})
package credentials
