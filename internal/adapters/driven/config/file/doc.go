// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - Watcher: fsnotify reload of the two above
//   - LoadCredentials: secrets from the environment and .env files
package file
