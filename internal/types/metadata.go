package types

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Metadata is the canonical string keyed, string valued mapping attached to
// every billing entity.
type Metadata map[string]string

// IsMetadataEmpty reports whether m is nil or has zero entries. It gates every
// update-vs-leave decision: target metadata is only ever written when empty.
func IsMetadataEmpty(m Metadata) bool {
	return len(m) == 0
}

// Clone returns an independent copy, never nil.
func (m Metadata) Clone() Metadata {
	return lo.Assign(Metadata{}, m)
}

// Merge returns a copy of m with extra applied on top.
func (m Metadata) Merge(extra Metadata) Metadata {
	return lo.Assign(Metadata{}, m, extra)
}

// Keys returns the keys in sorted order.
func (m Metadata) Keys() []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// String renders m as compact JSON with sorted keys, for log lines.
func (m Metadata) String() string {
	b, err := json.Marshal(map[string]string(m.Clone()))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// NormalizeMetadata converts an embedded metadata payload into a concrete
// Metadata. The payload may be nil, an existing mapping, a map with arbitrary
// values or a raw JSON object. The result is never nil; values are coerced to
// their string form.
func NormalizeMetadata(payload interface{}) Metadata {
	result := Metadata{}

	switch v := payload.(type) {
	case nil:
		return result
	case Metadata:
		return v.Clone()
	case map[string]string:
		return lo.Assign(result, v)
	case map[string]interface{}:
		for k, val := range v {
			result[k] = stringifyMetadataValue(val)
		}
		return result
	case []byte:
		return normalizeRawMetadata(v)
	case jsoniter.RawMessage:
		return normalizeRawMetadata(v)
	case string:
		return normalizeRawMetadata([]byte(v))
	default:
		// Structs and other map types go through a JSON round trip.
		raw, err := json.Marshal(v)
		if err != nil {
			return result
		}
		return normalizeRawMetadata(raw)
	}
}

func normalizeRawMetadata(raw []byte) Metadata {
	result := Metadata{}
	if len(raw) == 0 {
		return result
	}

	var decoded map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return result
	}
	for k, val := range decoded {
		result[k] = stringifyMetadataValue(val)
	}
	return result
}

func stringifyMetadataValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
