package gift

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-tracker/internal/core/common/types"
	beneficiaryDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/beneficiary"
	giftDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/gift"
	transactionDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/budget-tracker/internal/core/datamodel/user"
)

const (
	OccasionBirthday    = "birthday"
	OccasionHoliday     = "holiday"
	OccasionCelebration = "celebration"
	OccasionOther       = "other"

	DirectionGiven    = "given"
	DirectionReceived = "received"
)

var (
	OccasionTypes = []string{OccasionBirthday, OccasionHoliday, OccasionCelebration, OccasionOther}
	Directions    = []string{DirectionGiven, DirectionReceived}
)

// Ref is the minimal id and name view of a related person or user.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TransactionRef struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
}

type Occasion struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	OccasionType    string      `json:"occasion_type"`
	OccasionDate    *types.Date `json:"occasion_date"`
	PersonID        *int64      `json:"person_id"`
	Notes           *string     `json:"notes"`
	IsPoolAccount   bool        `json:"is_pool_account"`
	CreatedByUserID int64       `json:"created_by_user_id"`
	CreatedAt       time.Time   `json:"created_at"`
	Person          *Ref        `json:"person"`
	CreatedByUser   *Ref        `json:"created_by_user"`
}

// OccasionWithSummary is a list item.
type OccasionWithSummary struct {
	Occasion
	Summary Summary `json:"summary"`
}

// OccasionDetail carries the occasion's entries and purchases.
type OccasionDetail struct {
	Occasion
	GiftEntries   []*Entry    `json:"gift_entries"`
	GiftPurchases []*Purchase `json:"gift_purchases"`
}

type Entry struct {
	ID              int64           `json:"id"`
	OccasionID      int64           `json:"occasion_id"`
	Direction       string          `json:"direction"`
	PersonID        int64           `json:"person_id"`
	Amount          decimal.Decimal `json:"amount"`
	GiftDate        types.Date      `json:"gift_date"`
	Description     *string         `json:"description"`
	Notes           *string         `json:"notes"`
	TransactionID   *int64          `json:"transaction_id"`
	CreatedByUserID int64           `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Person          *Ref            `json:"person"`
	Transaction     *TransactionRef `json:"transaction"`
	CreatedByUser   *Ref            `json:"created_by_user"`
}

type Purchase struct {
	ID              int64           `json:"id"`
	OccasionID      int64           `json:"occasion_id"`
	Amount          decimal.Decimal `json:"amount"`
	PurchaseDate    types.Date      `json:"purchase_date"`
	Description     string          `json:"description"`
	Notes           *string         `json:"notes"`
	TransactionID   *int64          `json:"transaction_id"`
	CreatedByUserID int64           `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Transaction     *TransactionRef `json:"transaction"`
	CreatedByUser   *Ref            `json:"created_by_user"`
}

type Summary struct {
	OccasionID     int64           `json:"occasion_id"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalGiven     decimal.Decimal `json:"total_given"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	Balance        decimal.Decimal `json:"balance"`
	EntryCount     int             `json:"entry_count"`
	PurchaseCount  int             `json:"purchase_count"`
}

// Summarize totals an occasion's entries and purchases. Balance is what a
// pool account has left: received minus purchases.
func Summarize(occasionID int64, entries []giftDatamodel.Entry, purchases []giftDatamodel.Purchase) Summary {
	s := Summary{
		OccasionID:     occasionID,
		TotalReceived:  decimal.Zero,
		TotalGiven:     decimal.Zero,
		TotalPurchases: decimal.Zero,
		EntryCount:     len(entries),
		PurchaseCount:  len(purchases),
	}
	for _, e := range entries {
		switch e.Direction {
		case DirectionReceived:
			s.TotalReceived = s.TotalReceived.Add(e.Amount)
		case DirectionGiven:
			s.TotalGiven = s.TotalGiven.Add(e.Amount)
		}
	}
	for _, p := range purchases {
		s.TotalPurchases = s.TotalPurchases.Add(p.Amount)
	}
	s.Balance = s.TotalReceived.Sub(s.TotalPurchases)
	return s
}

func personRef(b *beneficiaryDatamodel.Beneficiary) *Ref {
	if b == nil {
		return nil
	}
	return &Ref{ID: b.ID, Name: b.Name}
}

func userRef(u *userDatamodel.User) *Ref {
	if u == nil {
		return nil
	}
	return &Ref{ID: u.ID, Name: u.Name}
}

func transactionRef(t *transactionDatamodel.Transaction) *TransactionRef {
	if t == nil {
		return nil
	}
	return &TransactionRef{
		ID:              t.ID,
		Amount:          t.Amount,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.UTC(),
	}
}

func OccasionFromDataModel(o *giftDatamodel.Occasion) Occasion {
	return Occasion{
		ID:              o.ID,
		Name:            o.Name,
		OccasionType:    o.OccasionType,
		OccasionDate:    o.OccasionDate,
		PersonID:        o.PersonID,
		Notes:           o.Notes,
		IsPoolAccount:   o.IsPoolAccount,
		CreatedByUserID: o.CreatedByUserID,
		CreatedAt:       o.CreatedAt,
		Person:          personRef(o.Person),
		CreatedByUser:   userRef(o.CreatedByUser),
	}
}

func EntryFromDataModel(e *giftDatamodel.Entry) *Entry {
	return &Entry{
		ID:              e.ID,
		OccasionID:      e.OccasionID,
		Direction:       e.Direction,
		PersonID:        e.PersonID,
		Amount:          e.Amount,
		GiftDate:        e.GiftDate,
		Description:     e.Description,
		Notes:           e.Notes,
		TransactionID:   e.TransactionID,
		CreatedByUserID: e.CreatedByUserID,
		CreatedAt:       e.CreatedAt,
		Person:          personRef(e.Person),
		Transaction:     transactionRef(e.Transaction),
		CreatedByUser:   userRef(e.CreatedByUser),
	}
}

func PurchaseFromDataModel(p *giftDatamodel.Purchase) *Purchase {
	return &Purchase{
		ID:              p.ID,
		OccasionID:      p.OccasionID,
		Amount:          p.Amount,
		PurchaseDate:    p.PurchaseDate,
		Description:     p.Description,
		Notes:           p.Notes,
		TransactionID:   p.TransactionID,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
		Transaction:     transactionRef(p.Transaction),
		CreatedByUser:   userRef(p.CreatedByUser),
	}
}

func entriesFromDataModel(rows []giftDatamodel.Entry) []*Entry {
	out := make([]*Entry, len(rows))
	for i := range rows {
		out[i] = EntryFromDataModel(&rows[i])
	}
	return out
}

func purchasesFromDataModel(rows []giftDatamodel.Purchase) []*Purchase {
	out := make([]*Purchase, len(rows))
	for i := range rows {
		out[i] = PurchaseFromDataModel(&rows[i])
	}
	return out
}
