package schema

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/value"
)

type (
	// Schema is the type description active for a range of blocks.
	// Blob is opaque to everything except the Decoder.
	Schema struct {
		SpecVersion uint32
		Blob        []byte
	}

	// Decoder turns the raw bytes of a storage entry into a value tree.
	// The schema is always passed explicitly; implementations must not keep a "current" schema.
	Decoder interface {
		DecodeStorage(schema *Schema, key []byte, data []byte) (*value.Value, error)
	}

	// Catalog maps spec versions to schemas.
	Catalog struct {
		schemas        map[uint32]*Schema
		minSpecVersion uint32
	}
)

var (
	ErrUnsupportedSchema = xerrors.New("unsupported schema")
)

func NewCatalog(schemas []*Schema, minSpecVersion uint32) *Catalog {
	catalog := &Catalog{
		schemas:        make(map[uint32]*Schema, len(schemas)),
		minSpecVersion: minSpecVersion,
	}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		catalog.schemas[s.SpecVersion] = s
	}
	return catalog
}

// Resolve returns the schema recorded for the spec version.
// Versions below the minimum, or without a recorded schema, are unsupported.
func (c *Catalog) Resolve(specVersion uint32) (*Schema, error) {
	if specVersion < c.minSpecVersion {
		return nil, xerrors.Errorf("spec version %v predates minimum %v: %w", specVersion, c.minSpecVersion, ErrUnsupportedSchema)
	}

	s, ok := c.schemas[specVersion]
	if !ok {
		return nil, xerrors.Errorf("no schema for spec version %v: %w", specVersion, ErrUnsupportedSchema)
	}
	return s, nil
}

func (c *Catalog) MinSpecVersion() uint32 {
	return c.minSpecVersion
}

// Versions returns the known spec versions in ascending order.
func (c *Catalog) Versions() []uint32 {
	versions := make([]uint32, 0, len(c.schemas))
	for v := range c.schemas {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

func (c *Catalog) Len() int {
	return len(c.schemas)
}
