package identification

import (
	"testing"

	"worklane/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredSlots(t *testing.T) {
	freelancer := types.AccountVariant{Type: types.AccountTypeFreelancer}
	individual := types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeIndividual}
	company := types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany}

	base := []types.SlotName{types.SlotIdentification, types.SlotTradeLicense}

	assert.Equal(t, base, RequiredSlots(freelancer))
	assert.Equal(t, base, RequiredSlots(individual))
	assert.Equal(t, append(base, types.SlotBoardResolution), RequiredSlots(company))

	// Pure: repeated calls return the same sets.
	for range 3 {
		assert.Equal(t, RequiredSlots(freelancer), RequiredSlots(freelancer))
		assert.Equal(t, RequiredSlots(company), RequiredSlots(company))
	}
}

func TestSlotAllowed(t *testing.T) {
	individual := types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeIndividual}
	company := types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany}

	assert.True(t, slotAllowed(individual, types.SlotTradeLicense))
	assert.False(t, slotAllowed(individual, types.SlotBoardResolution))
	assert.True(t, slotAllowed(company, types.SlotBoardResolution))
	assert.False(t, slotAllowed(company, types.SlotName("tax_certificate")))
}

func TestMissingSlots(t *testing.T) {
	company := types.AccountVariant{Type: types.AccountTypeEmployer, EmployerType: types.EmployerAccountTypeCompany}

	missing := MissingSlots(company, nil)
	require.Equal(t, RequiredSlots(company), missing)

	record := &types.IdentificationRecord{
		UserID: "u1",
		Slots: map[types.SlotName][]types.Attachment{
			types.SlotIdentification: {{ID: "a1", FileName: "passport.pdf"}},
		},
	}

	missing = MissingSlots(company, record)
	assert.Equal(t, []types.SlotName{types.SlotTradeLicense, types.SlotBoardResolution}, missing)

	record.Slots[types.SlotTradeLicense] = []types.Attachment{{ID: "a2", FileName: "license.pdf"}}
	record.Slots[types.SlotBoardResolution] = []types.Attachment{{ID: "a3", FileName: "board.pdf"}}
	assert.Empty(t, MissingSlots(company, record))
}
