package models

import "time"

// Category classifies an event into one of the closed spending/income groups.
type Category string

const (
	CategoryElectronics              Category = "ELECTRONICS"
	CategoryFinanceAndPayments       Category = "FINANCE_AND_PAYMENTS"
	CategoryInvestmentsAndSavings    Category = "INVESTMENTS_AND_SAVINGS"
	CategoryCultureAndEducation      Category = "CULTURE_AND_EDUCATION"
	CategoryFashionAndAccessories    Category = "FASHION_AND_ACCESSORIES"
	CategoryRealEstate               Category = "REAL_ESTATE"
	CategoryHomeBills                Category = "HOME_BILLS"
	CategoryLoansAndCredits          Category = "LOANS_AND_CREDITS"
	CategoryGiftsAndFamily           Category = "GIFTS_AND_FAMILY"
	CategoryTransfersAndTransactions Category = "TRANSFERS_AND_TRANSACTIONS"
	CategoryEntertainmentAndLeisure  Category = "ENTERTAINMENT_AND_LEISURE"
	CategoryTransport                Category = "TRANSPORT"
	CategoryServicesAndRepairs       Category = "SERVICES_AND_REPAIRS"
	CategorySalariesAndIncome        Category = "SALARIES_AND_INCOME"
	CategoryEquipment                Category = "EQUIPMENT"
	CategoryDailyShopping            Category = "DAILY_SHOPPING"
	CategoryHealthAndBeauty          Category = "HEALTH_AND_BEAUTY"
	CategoryPets                     Category = "PETS"
	CategoryOthers                   Category = "OTHERS"
)

var categories = map[Category]struct{}{
	CategoryElectronics: {}, CategoryFinanceAndPayments: {},
	CategoryInvestmentsAndSavings: {}, CategoryCultureAndEducation: {},
	CategoryFashionAndAccessories: {}, CategoryRealEstate: {},
	CategoryHomeBills: {}, CategoryLoansAndCredits: {},
	CategoryGiftsAndFamily: {}, CategoryTransfersAndTransactions: {},
	CategoryEntertainmentAndLeisure: {}, CategoryTransport: {},
	CategoryServicesAndRepairs: {}, CategorySalariesAndIncome: {},
	CategoryEquipment: {}, CategoryDailyShopping: {},
	CategoryHealthAndBeauty: {}, CategoryPets: {}, CategoryOthers: {},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// PaymentType is how an expense was paid.
type PaymentType string

const (
	PaymentCard  PaymentType = "CARD"
	PaymentCash  PaymentType = "CASH"
	PaymentBlik  PaymentType = "BLIK"
	PaymentOther PaymentType = "OTHER"
)

// Valid reports whether p is one of the known payment types.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCard, PaymentCash, PaymentBlik, PaymentOther:
		return true
	}
	return false
}

// EventType splits events into expenses and income.
type EventType string

const (
	EventExpense EventType = "EXPENSE"
	EventIncome  EventType = "INCOME"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return t == EventExpense || t == EventIncome
}

// Event represents one financial transaction owned by a user. Events are
// immutable after creation; they disappear only with the owning account.
type Event struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"-"`
	Title         string       `json:"title"`
	Category      Category     `json:"category"`
	Amount        float64      `json:"amount"`
	Date          time.Time    `json:"date"`
	ReceiptImage  []byte       `json:"receiptImage,omitempty"`
	InvoiceNumber *int64       `json:"invoiceNumber,omitempty"`
	PaymentType   *PaymentType `json:"paymentType,omitempty"`
	NIP           *int64       `json:"nip,omitempty"`
	Description   string       `json:"description,omitempty"`
	Type          EventType    `json:"type"`
}
