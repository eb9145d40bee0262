package identification

import "worklane/pkg/types"

// RequiredSlots returns the document slots an account variant must provide,
// in display order. It is the single source of truth consulted by both
// submission validation and the screens that render upload fields.
//
// Freelancers and individual employers provide an identification document and
// a trade license; company employers additionally provide a board resolution.
func RequiredSlots(v types.AccountVariant) []types.SlotName {
	slots := []types.SlotName{types.SlotIdentification, types.SlotTradeLicense}
	if v.Type == types.AccountTypeEmployer && v.EmployerType == types.EmployerAccountTypeCompany {
		slots = append(slots, types.SlotBoardResolution)
	}
	return slots
}

func slotAllowed(v types.AccountVariant, name types.SlotName) bool {
	for _, s := range RequiredSlots(v) {
		if s == name {
			return true
		}
	}
	return false
}

// MissingSlots lists required slots that hold no attachments. Submission does
// not enforce completeness (partial uploads are saved); screens use this to
// tell the user which documents are still outstanding.
func MissingSlots(v types.AccountVariant, record *types.IdentificationRecord) []types.SlotName {
	var missing []types.SlotName
	for _, slot := range RequiredSlots(v) {
		if len(record.Slot(slot)) == 0 {
			missing = append(missing, slot)
		}
	}
	return missing
}
