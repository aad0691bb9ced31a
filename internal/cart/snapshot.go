package cart

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/servease/servease-backend/internal/pricing"
)

// PersistedLine is the durable shape of one cart line. The format is stable
// across sessions; availableStock is deliberately excluded because the
// catalog owns it.
type PersistedLine struct {
	ItemID   uuid.UUID               `json:"itemId"`
	Quantity int                     `json:"quantity"`
	Context  pricing.ContextEnvelope `json:"unitContext"`
}

// Persist converts a snapshot into its durable form.
func Persist(snapshot []LineItem) ([]PersistedLine, error) {
	out := make([]PersistedLine, 0, len(snapshot))
	for _, line := range snapshot {
		envelope, err := pricing.EncodeContext(line.Context)
		if err != nil {
			return nil, err
		}
		out = append(out, PersistedLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Context:  envelope,
		})
	}
	return out, nil
}

// MarshalSnapshot serializes a snapshot to JSON for storage.
func MarshalSnapshot(snapshot []LineItem) ([]byte, error) {
	lines, err := Persist(snapshot)
	if err != nil {
		return nil, err
	}
	return json.Marshal(lines)
}

// UnmarshalSnapshot parses the stored JSON back into persisted lines.
func UnmarshalSnapshot(raw []byte) ([]PersistedLine, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var lines []PersistedLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
