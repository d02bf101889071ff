package scale

import (
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

type (
	// Decoder decodes storage values against the registry carried by each schema blob.
	// Parsed registries are cached per spec version.
	Decoder struct {
		mu         sync.RWMutex
		registries map[uint32]*registry
	}
)

var (
	ErrUnknownStorage = xerrors.New("storage key not described by schema")
)

var _ schema.Decoder = (*Decoder)(nil)

func NewDecoder() *Decoder {
	return &Decoder{
		registries: make(map[uint32]*registry),
	}
}

func (d *Decoder) DecodeStorage(s *schema.Schema, key []byte, data []byte) (*value.Value, error) {
	if s == nil {
		return nil, xerrors.Errorf("missing schema: %w", schema.ErrUnsupportedSchema)
	}

	r, err := d.registry(s)
	if err != nil {
		return nil, xerrors.Errorf("failed to load registry for spec version %v: %w", s.SpecVersion, err)
	}

	id, ok := r.storageType(key)
	if !ok {
		return nil, xerrors.Errorf("key %v: %w", hexutil.Encode(key), ErrUnknownStorage)
	}

	v, err := r.decodeAll(id, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode storage %v with spec version %v: %w", hexutil.Encode(key), s.SpecVersion, err)
	}
	return v, nil
}

// DecodeType decodes a value of an arbitrary registry type.
func (d *Decoder) DecodeType(s *schema.Schema, id uint32, data []byte) (*value.Value, error) {
	r, err := d.registry(s)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(id, data)
}

func (d *Decoder) registry(s *schema.Schema) (*registry, error) {
	d.mu.RLock()
	r, ok := d.registries[s.SpecVersion]
	d.mu.RUnlock()
	if ok {
		return r, nil
	}

	metadata, err := ParseMetadata(s.Blob)
	if err != nil {
		return nil, err
	}

	r, err = newRegistry(metadata)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.registries[s.SpecVersion]; ok {
		return existing, nil
	}
	d.registries[s.SpecVersion] = r
	return r, nil
}
