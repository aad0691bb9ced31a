package pricing

import (
	"encoding/json"
	"fmt"
)

// ContextEnvelope is the stable wire shape for a UnitContext. Cart snapshots
// persist it alongside each line item, so the encoding must stay stable
// across sessions.
type ContextEnvelope struct {
	Kind ContextKind     `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeContext wraps the context in its tagged envelope.
func EncodeContext(ctx UnitContext) (ContextEnvelope, error) {
	if ctx == nil {
		ctx = ProductContext{}
	}
	data, err := json.Marshal(ctx)
	if err != nil {
		return ContextEnvelope{}, err
	}
	return ContextEnvelope{Kind: ctx.Kind(), Data: data}, nil
}

// DecodeContext rebuilds the tagged variant from its envelope.
func DecodeContext(envelope ContextEnvelope) (UnitContext, error) {
	switch envelope.Kind {
	case ContextKindRental:
		var ctx RentalContext
		if err := unmarshalData(envelope.Data, &ctx); err != nil {
			return nil, err
		}
		return ctx, nil
	case ContextKindTaxi:
		var ctx TaxiContext
		if err := unmarshalData(envelope.Data, &ctx); err != nil {
			return nil, err
		}
		return ctx, nil
	case ContextKindDelivery:
		var ctx DeliveryContext
		if err := unmarshalData(envelope.Data, &ctx); err != nil {
			return nil, err
		}
		return ctx, nil
	case ContextKindProduct, "":
		return ProductContext{}, nil
	default:
		return nil, fmt.Errorf("unknown unit context kind %q", envelope.Kind)
	}
}

func unmarshalData(data json.RawMessage, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
