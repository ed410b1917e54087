// Package config loads and validates the exporter's YAML configuration.
//
// Load(path) reads the file, fills defaults, and validates:
//
//   - clusters      — required, at least one non-empty cluster name
//   - region        — optional AWS region override
//   - role_arn      — optional IAM role to assume; must look like
//     arn:aws:iam::123456789012:role/something
//   - listen        — HTTP listen address, default "[::1]:6543"
//   - tls           — optional cert_file/key_file pair for TLS serving
//
// Watch(ctx, path, onChange) monitors the file with fsnotify and delivers
// the newly loaded Config on every successful reload; a file that fails to
// parse keeps the previous config active.
package config
