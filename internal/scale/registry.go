package scale

import (
	"bytes"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/schema"
)

type (
	// Metadata is the JSON document stored as a schema blob:
	// a portable type registry plus the storage entries the indexer reads.
	Metadata struct {
		Types   []PortableType `json:"types"`
		Storage []StorageEntry `json:"storage"`
	}

	PortableType struct {
		ID   uint32   `json:"id"`
		Type TypeInfo `json:"type"`
	}

	TypeInfo struct {
		Path []string `json:"path,omitempty"`
		Def  TypeDef  `json:"def"`
	}

	// TypeDef holds exactly one of its members.
	TypeDef struct {
		Composite   *CompositeDef   `json:"composite,omitempty"`
		Variant     *VariantDef     `json:"variant,omitempty"`
		Sequence    *ElementDef     `json:"sequence,omitempty"`
		Array       *ArrayDef       `json:"array,omitempty"`
		Tuple       []uint32        `json:"tuple,omitempty"`
		Primitive   string          `json:"primitive,omitempty"`
		Compact     *ElementDef     `json:"compact,omitempty"`
		BitSequence *BitSequenceDef `json:"bitSequence,omitempty"`

		isTuple bool
	}

	CompositeDef struct {
		Fields []FieldDef `json:"fields"`
	}

	FieldDef struct {
		Name     string `json:"name,omitempty"`
		Type     uint32 `json:"type"`
		TypeName string `json:"typeName,omitempty"`
	}

	VariantDef struct {
		Variants []VariantCase `json:"variants"`
	}

	VariantCase struct {
		Name   string     `json:"name"`
		Fields []FieldDef `json:"fields"`
		Index  uint8      `json:"index"`
	}

	ElementDef struct {
		Type uint32 `json:"type"`
	}

	ArrayDef struct {
		Len  uint32 `json:"len"`
		Type uint32 `json:"type"`
	}

	BitSequenceDef struct {
		BitStoreType uint32 `json:"bit_store_type"`
		BitOrderType uint32 `json:"bit_order_type"`
	}

	// StorageEntry binds a (pallet, item) prefix to the type of its values.
	StorageEntry struct {
		Pallet string `json:"pallet"`
		Item   string `json:"item"`
		Type   uint32 `json:"type"`
	}

	registry struct {
		types   map[uint32]*TypeDef
		storage map[string]uint32
	}
)

var (
	ErrInvalidMetadata = xerrors.New("invalid metadata")

	// SCALE-encoded RuntimeMetadata as written by the node starts with this magic.
	// The metadata table must hold the JSON export of the registry instead.
	runtimeMetadataMagic = []byte("meta")
)

func (d *TypeDef) UnmarshalJSON(data []byte) error {
	type plain TypeDef
	var raw struct {
		plain
		Tuple *[]uint32 `json:"tuple"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = TypeDef(raw.plain)
	if raw.Tuple != nil {
		d.Tuple = *raw.Tuple
		d.isTuple = true
	}
	return nil
}

func (d TypeDef) MarshalJSON() ([]byte, error) {
	type plain TypeDef
	if d.IsTuple() {
		tuple := d.Tuple
		if tuple == nil {
			tuple = []uint32{}
		}
		return json.Marshal(struct {
			Tuple []uint32 `json:"tuple"`
		}{tuple})
	}
	return json.Marshal(plain(d))
}

// IsTuple reports whether the definition is a tuple, including the empty unit tuple.
func (d TypeDef) IsTuple() bool {
	return d.isTuple || d.Tuple != nil
}

// ParseMetadata reads the JSON export of a runtime's type registry and storage entries.
func ParseMetadata(blob []byte) (*Metadata, error) {
	if bytes.HasPrefix(blob, runtimeMetadataMagic) {
		version := -1
		if len(blob) > len(runtimeMetadataMagic) {
			version = int(blob[len(runtimeMetadataMagic)])
		}
		return nil, xerrors.Errorf("scale-encoded runtime metadata v%d: %w", version, schema.ErrUnsupportedSchema)
	}

	var metadata Metadata
	if err := json.Unmarshal(blob, &metadata); err != nil {
		return nil, xerrors.Errorf("failed to parse metadata: %v: %w", err, ErrInvalidMetadata)
	}
	return &metadata, nil
}

func newRegistry(metadata *Metadata) (*registry, error) {
	r := &registry{
		types:   make(map[uint32]*TypeDef, len(metadata.Types)),
		storage: make(map[string]uint32, len(metadata.Storage)),
	}

	for i := range metadata.Types {
		t := &metadata.Types[i]
		if _, ok := r.types[t.ID]; ok {
			return nil, xerrors.Errorf("duplicate type id %v: %w", t.ID, ErrInvalidMetadata)
		}
		r.types[t.ID] = &t.Type.Def
	}

	for _, entry := range metadata.Storage {
		if _, ok := r.types[entry.Type]; !ok {
			return nil, xerrors.Errorf("storage %v.%v references unknown type %v: %w", entry.Pallet, entry.Item, entry.Type, ErrInvalidMetadata)
		}
		prefix := chain.DeriveKey(entry.Pallet, entry.Item)
		r.storage[hexutil.Encode(prefix)] = entry.Type
	}

	return r, nil
}

func (r *registry) lookup(id uint32) (*TypeDef, error) {
	def, ok := r.types[id]
	if !ok {
		return nil, xerrors.Errorf("unknown type id %v: %w", id, ErrInvalidMetadata)
	}
	return def, nil
}

// storageType finds the value type of a full storage key by its 32-byte prefix.
func (r *registry) storageType(key []byte) (uint32, bool) {
	if len(key) < 2*chain.HashLength {
		return 0, false
	}
	id, ok := r.storage[hexutil.Encode(key[:2*chain.HashLength])]
	return id, ok
}
