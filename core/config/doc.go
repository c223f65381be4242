// Package config provides configuration management for the R2 Explorer.
//
// It uses Viper to merge defaults declared in struct tags, a .env file
// (loaded with godotenv) and environment variables.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP API settings (host, port, API key, body limit)
//   - Storage: endpoint template, region, TLS, timeout, client cache
//   - Credentials: accounts file location and keyring service name
//   - Log: logging level and format
//
// Environment variables use the section name as prefix, for example
// STORAGE_ENDPOINT_TEMPLATE or CREDENTIALS_DIR.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Region)
package config
