// Package config defines the application configuration structure and its
// loading logic. Configuration comes from a YAML file and KANBAN_-prefixed
// environment variables, with environment variables taking precedence.
package config
