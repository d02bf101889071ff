package config

import (
	"embed"
)

// Store holds the yml files of every config name. .secrets.yml files are read from disk instead.
//
//go:embed deeper/*/*.yml
var Store embed.FS
