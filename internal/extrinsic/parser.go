package extrinsic

import (
	"bytes"
	"encoding/json"

	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

type (
	// ParseResult holds the operations of one block.
	// Skipped counts list elements that could not be parsed; BadArguments counts arguments left nil.
	ParseResult struct {
		Operations   []*Operation
		Skipped      int
		BadArguments int
	}

	envelope struct {
		Current *rawOperation `json:"Current"`
	}

	rawOperation struct {
		CallData  *rawCallData  `json:"call_data"`
		Signature *rawSignature `json:"signature"`
	}

	rawCallData struct {
		PalletName string            `json:"pallet_name"`
		Ty         rawCallType       `json:"ty"`
		Arguments  []json.RawMessage `json:"arguments"`
	}

	rawCallType struct {
		Name string `json:"name"`
	}

	rawSignature struct {
		Address    map[string]json.RawMessage `json:"address"`
		Extensions []json.RawMessage          `json:"extensions"`
	}
)

const (
	addressID = "Id"
)

var (
	// ErrCorruptPayload is returned when the operations list itself cannot be read.
	ErrCorruptPayload = xerrors.New("corrupt operations payload")

	errMissingCallData = xerrors.New("missing call data")

	jsonNull = []byte("null")
)

// Parse reads the JSON list of operations stored for one block.
// Only a payload that is not a JSON list is an error; malformed elements are skipped and counted.
func Parse(data []byte) (*ParseResult, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return &ParseResult{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, xerrors.Errorf("failed to read operations list: %v: %w", err, ErrCorruptPayload)
	}

	result := &ParseResult{
		Operations: make([]*Operation, 0, len(elements)),
	}
	for _, element := range elements {
		op, badArguments, err := parseOperation(element)
		if err != nil {
			result.Skipped++
			continue
		}

		result.BadArguments += badArguments
		result.Operations = append(result.Operations, op)
	}

	return result, nil
}

func parseOperation(data json.RawMessage) (*Operation, int, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, 0, xerrors.Errorf("failed to read envelope: %w", err)
	}

	raw := env.Current
	if raw == nil {
		// Accept a bare operation without the version envelope.
		raw = new(rawOperation)
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, 0, xerrors.Errorf("failed to read operation: %w", err)
		}
	}

	if raw.CallData == nil {
		return nil, 0, errMissingCallData
	}

	op := &Operation{
		Pallet: raw.CallData.PalletName,
		Call:   raw.CallData.Ty.Name,
		Args:   make([]*value.Value, len(raw.CallData.Arguments)),
	}

	badArguments := 0
	for i, arg := range raw.CallData.Arguments {
		v, err := value.FromJSON(arg)
		if err != nil {
			badArguments++
			continue
		}
		op.Args[i] = v
	}

	if raw.Signature != nil {
		op.Signature = parseSignature(raw.Signature)
	}

	return op, badArguments, nil
}

func parseSignature(raw *rawSignature) *Signature {
	signature := &Signature{}
	if id, ok := raw.Address[addressID]; ok {
		if account, err := parseAccount(id); err == nil {
			signature.Address = &account
		}
	}

	for _, ext := range raw.Extensions {
		if extension, ok := parseExtension(ext); ok {
			signature.Extensions = append(signature.Extensions, extension)
		}
	}

	return signature
}

func parseAccount(data json.RawMessage) (chain.AccountID, error) {
	var address string
	if err := json.Unmarshal(data, &address); err == nil {
		account, _, err := chain.ParseAddress(address)
		return account, err
	}

	v, err := value.FromJSON(data)
	if err != nil {
		return chain.AccountID{}, err
	}
	return chain.AccountIDFromValue(v)
}

// parseExtension reads a `[name, [values...]]` pair.
func parseExtension(data json.RawMessage) (Extension, bool) {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return Extension{}, false
	}

	var name string
	if err := json.Unmarshal(pair[0], &name); err != nil {
		return Extension{}, false
	}

	v, err := value.FromJSON(pair[1])
	if err != nil {
		return Extension{}, false
	}

	return Extension{Name: name, Value: v}, true
}
