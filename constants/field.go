package constants

// Key fields.
const (
	FieldTenderID       = "Tender ID"
	FieldOrganization   = "Organization"
	FieldTenderValue    = "Tender Value"
	FieldBidEndDate     = "Bid End Date"
	FieldBidOpeningDate = "Bid Opening Date"
	FieldPreBidDate     = "Pre-Bid Date"
	FieldEMDAmount      = "EMD Amount"
	FieldContactPerson  = "Contact Person"
	FieldEmail          = "Email"
	FieldPhone          = "Phone"
)

// Date events. The first three share names with key fields.
const (
	EventBidEndDate      = FieldBidEndDate
	EventBidOpeningDate  = FieldBidOpeningDate
	EventPreBidDate      = FieldPreBidDate
	EventPublicationDate = "Publication Date"
)

// BOQ columns.
const (
	ColumnItemCategory = "Item Category"
	ColumnQuantity     = "Quantity"
	ColumnDeliveryDays = "Delivery Days"
	ColumnConsignee    = "Consignee"
	ColumnUnit         = "Unit"
	ColumnRate         = "Rate"
	ColumnAmount       = "Amount"
)

// BOQColumns lists the columns in report order.
var BOQColumns = []string{
	ColumnItemCategory,
	ColumnQuantity,
	ColumnDeliveryDays,
	ColumnConsignee,
	ColumnUnit,
	ColumnRate,
	ColumnAmount,
}

// CurrencyMarker is prepended to amounts that carry no currency of their own.
const CurrencyMarker = "₹"
