package types

import "time"

// SlotName identifies an identification document slot. The set of slot names
// is fixed; which slots apply to an account depends on its variant.
type SlotName string

const (
	SlotIdentification  SlotName = "identification"
	SlotTradeLicense    SlotName = "trade_license"
	SlotBoardResolution SlotName = "board_resolution"
)

func (s SlotName) Label() string {
	switch s {
	case SlotIdentification:
		return "Identification document"
	case SlotTradeLicense:
		return "Trade license"
	case SlotBoardResolution:
		return "Board resolution"
	}
	return string(s)
}

// IdentificationRecord holds an account's identification documents, one
// ordered attachment sequence per slot. There is at most one record per
// account, keyed by user id.
type IdentificationRecord struct {
	UserID    string
	Slots     map[SlotName][]Attachment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the attachments held in the named slot, or nil.
func (r *IdentificationRecord) Slot(name SlotName) []Attachment {
	if r == nil || r.Slots == nil {
		return nil
	}
	return r.Slots[name]
}
