package fixtures

import (
	"embed"
)

//go:embed extrinsic/*.json schema/*.json storage/*.hex
var FixturesFS embed.FS
