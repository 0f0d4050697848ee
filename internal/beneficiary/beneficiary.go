package beneficiary

import (
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
)

// Beneficiary is who a transaction is for, and the person on a gift.
type Beneficiary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func ToDataModel(b *Beneficiary) *beneficiaryDatamodel.Beneficiary {
	return &beneficiaryDatamodel.Beneficiary{ID: b.ID, Name: b.Name}
}

func FromDataModel(b *beneficiaryDatamodel.Beneficiary) *Beneficiary {
	return &Beneficiary{ID: b.ID, Name: b.Name}
}
