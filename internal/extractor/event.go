package extractor

import (
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

const (
	EventCreditDataAdded   = "CreditDataAdded"
	EventCreditDataUpdated = "CreditDataUpdated"

	eventRecordFields = 3
)

var (
	eventPath = value.Path{value.Index(1)}
)

// EventRecords decodes the block's event list and keeps the credit data events.
// Unrecognized or malformed entries are dropped.
func EventRecords(v *value.Value) []*api.EventRecord {
	if v == nil || v.Kind() != value.KindUnnamed {
		return nil
	}

	var records []*api.EventRecord
	for i, entry := range v.Items() {
		record, err := eventRecord(entry)
		if err != nil {
			continue
		}

		record.Index = uint32(i)
		records = append(records, record)
	}
	return records
}

func eventRecord(entry *value.Value) (*api.EventRecord, error) {
	if entry == nil || entry.Kind() != value.KindNamed || entry.Len() != eventRecordFields {
		return nil, xerrors.Errorf("event record is %v: %w", entry, value.ErrShapeMismatch)
	}

	outer, err := value.Resolve(entry, eventPath...)
	if err != nil {
		return nil, err
	}
	if outer.Kind() != value.KindVariant {
		return nil, xerrors.Errorf("event is %v: %w", outer.Kind(), value.ErrShapeMismatch)
	}

	inner, err := value.Resolve(outer, value.AnyTag(), value.Index(0))
	if err != nil {
		return nil, err
	}
	if inner.Kind() != value.KindVariant {
		return nil, xerrors.Errorf("event body is %v: %w", inner.Kind(), value.ErrShapeMismatch)
	}

	switch inner.Tag() {
	case EventCreditDataAdded, EventCreditDataUpdated:
	default:
		return nil, xerrors.Errorf("event %v.%v not indexed: %w", outer.Tag(), inner.Tag(), value.ErrShapeMismatch)
	}

	target, err := value.Resolve(inner, value.AnyTag(), value.Index(0))
	if err != nil {
		return nil, err
	}
	account, err := chain.AccountIDFromValue(target)
	if err != nil {
		return nil, err
	}

	data, err := value.Resolve(inner, value.AnyTag(), value.Index(1))
	if err != nil {
		return nil, err
	}
	credit, err := CreditState(data)
	if err != nil {
		return nil, err
	}

	return &api.EventRecord{
		Pallet:  outer.Tag(),
		Event:   inner.Tag(),
		Account: account,
		Credit:  credit,
	}, nil
}
