package catalog

import (
	"sync"

	"github.com/joseph-ayodele/tender-analyzer/constants"
)

// DefaultMinBOQColumns is the populated-column count a BOQ row needs before it is
// emitted. It is a tuning heuristic, overridable per catalog.
const DefaultMinBOQColumns = 2

// shared value fragments
const (
	sep        = `[\s:：.-]*`
	timeSuffix = `(?:\s*/\s*Time)?`
	idValue    = `([A-Za-z0-9/_-]*\d[A-Za-z0-9/_-]*)`
	dateValue  = `(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}(?:\s+\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?)?)`
	moneyValue = `((?:₹|Rs\.?|INR)?\s*\d[\d,]*(?:\.\d+)?)`
	// moneyValue plus an optional scale word and a parenthesized amount in words
	amountValue = `((?:₹|Rs\.?|INR)?\s*\d[\d,]*(?:\.\d+)?(?:\s*(?:Crores?|Lakhs?|Lacs?))?(?:\s*\([^)]{1,40}\))?)`
	// free text up to the next well-known label
	freeText   = `(.+?)(?:\s+(?:Email|E-mail|Phone|Mobile|Contact|Address|Tender|Bid|Dated?)\b|$)`
	emailValue = `([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`
	phoneValue = `(\+?[\d\s()-]{10,})`
	colSep     = `[\s:：.]*`
)

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Compile(DefaultSpec())
	if err != nil {
		panic("catalog: built-in catalog does not compile: " + err.Error())
	}
	return c
})

// Default returns the built-in catalog, compiled on first use and shared afterwards.
func Default() *Catalog { return defaultCatalog() }

// DefaultSpec returns a fresh copy of the built-in catalog source.
func DefaultSpec() Spec {
	return Spec{
		Sections: []SectionSpec{
			{Tag: string(constants.SectionBidSummary), Pattern: `\b(?:BID\s+DETAILS|BID\s+SUMMARY|TENDER\s+DETAILS|TENDER\s+INFORMATION|BID\s+INFORMATION)\b|बोली\s+विवरण|बोली\s+मांक|निविदा\s+विवरण`},
			{Tag: string(constants.SectionImportantDates), Pattern: `\b(?:BID\s+END\s+DATE|BID\s+OPENING\s+DATE|PRE-BID\s+DATE|IMPORTANT\s+DATES|TIMELINE|SCHEDULE)\b|तारीख|समय|महत्वपूर्ण\s+तिथियां`},
			{Tag: string(constants.SectionEligibility), Pattern: `\b(?:EXPERIENCE\s+CRITERIA|ELIGIBILITY|QUALIFICATION|CRITERIA|REQUIREMENTS)\b|अनुभव|पात्रता|योग्यता`},
			{Tag: string(constants.SectionTechnicalSpecs), Pattern: `\b(?:TECHNICAL\s+SPECIFICATIONS|SPECIFICATIONS|SCOPE\s+OF\s+WORK|ITEM\s+CATEGORY|BOQ|BILL\s+OF\s+QUANTITY)\b|तकनीकी\s+विशिष्टियाँ`},
			{Tag: string(constants.SectionFinancial), Pattern: `\b(?:EMD\s+AMOUNT|ePBG|EARNEST\s+MONEY|COST|VALUE|FINANCIAL|TENDER\s+VALUE|CONTRACT\s+VALUE|ESTIMATED\s+COST)\b|बजट|वित्तीय`},
			{Tag: string(constants.SectionSubmission), Pattern: `\b(?:DOCUMENT\s+REQUIRED\s+FROM\s+SELLER|DOCUMENTS|DOCUMENTATION|SUBMISSION|REQUIRED\s+DOCUMENTS)\b|दस्तावेज़`},
			{Tag: string(constants.SectionEvaluation), Pattern: `\b(?:EVALUATION\s+METHOD|EVALUATION\s+CRITERIA|RA\s+QUALIFICATION\s+RULE|SCORING|ASSESSMENT)\b|मूल्यांकन`},
			{Tag: string(constants.SectionPreferencePolicy), Pattern: `\b(?:MSE|MSME|STARTUP|MAKE\s+IN\s+INDIA|PREFERENCE|POLICY|RESERVED|WOMEN|SC/ST)\b|पसंद|नीति`},
			{Tag: string(constants.SectionDeliverySchedule), Pattern: `\b(?:DELIVERY\s+DAYS|DELIVERY\s+SCHEDULE|CONSIGNEE|DELIVERY\s+LOCATION|TIMELINE)\b|डिलीवरी\s+के\s+दिन`},
		},
		Fields: []FieldSpec{
			{Name: constants.FieldTenderID, Kind: KindText, Patterns: []string{
				`(?:\b(?:Tender\s*(?:ID|No|Number)|BID\s*(?:NO|NUMBER))\b|निविदा\s*संख्या|बोली\s*मांक)` + sep + idValue,
				`\b(?:Reference|Ref)\.?\s*No\b` + sep + idValue,
				`\be-Tender\s*No\b` + sep + idValue,
			}},
			{Name: constants.FieldOrganization, Kind: KindFirstLine, Patterns: []string{
				`(?:\b(?:Organi[sz]ation(?:\s*Name)?|Department(?:\s*Name)?|Buyer\s*Name|Ministry)\b|क्रेता\s*का\s*नाम|संगठन)` + sep + freeText,
				`\b(?:Procuring\s*Entity|Purchaser)\b` + sep + freeText,
				`\b(?:Name\s*of\s*the\s*Buyer|Buyer)\b` + sep + freeText,
			}},
			{Name: constants.FieldTenderValue, Kind: KindAmount, Patterns: []string{
				`(?:\b(?:Estimated\s*(?:Value|Cost)|EMD\s*Amount|Tender\s*Value|Contract\s*Value|Budget)\b|बजट|अनुमानित\s*मूल्य)` + sep + amountValue,
				`\b(?:Total\s*Cost|Financial\s*Value)\b` + sep + amountValue,
				`\b(?:Price|Amount|Value)\b` + sep + amountValue,
			}},
			{Name: constants.FieldBidEndDate, Kind: KindDate, Patterns: []string{
				`(?:\b(?:Bid\s*End\s*Date|Last\s*Date|Closing\s*Date)\b|बोली\s*समाप्ति\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Submission\s*Deadline|Final\s*Date)\b` + timeSuffix + sep + dateValue,
			}},
			{Name: constants.FieldBidOpeningDate, Kind: KindDate, Patterns: []string{
				`(?:\b(?:Bid\s*Opening\s*Date|Opening\s*Date)\b|बोली\s*खोलने\s*की\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Technical\s*Bid\s*Opening|Commercial\s*Bid\s*Opening)\b` + timeSuffix + sep + dateValue,
			}},
			{Name: constants.FieldPreBidDate, Kind: KindDate, Patterns: []string{
				`(?:\bPre-Bid\s*(?:Date|Meeting)\b|प्री-बिड\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Pre\s*Bid\s*Conference|Site\s*Visit)\b` + timeSuffix + sep + dateValue,
			}},
			{Name: constants.FieldEMDAmount, Kind: KindAmount, Patterns: []string{
				`(?:\b(?:EMD\s*Amount|Earnest\s*Money(?:\s*Deposit)?|Security\s*Deposit)\b|बयाना\s*राशि)` + sep + amountValue,
				`\b(?:Bid\s*Security|Performance\s*Guarantee)\b` + sep + amountValue,
			}},
			{Name: constants.FieldContactPerson, Kind: KindFirstLine, Patterns: []string{
				`(?:\b(?:Contact\s*Person|Nodal\s*Officer|Officer)\b|संपर्क\s*व्यक्ति)` + sep + freeText,
				`\b(?:Tender\s*Inviting\s*Authority|Authority)\b` + sep + freeText,
			}},
			{Name: constants.FieldEmail, Kind: KindText, Patterns: []string{
				`(?:\b(?:Email|E-mail)\b|ईमेल)` + sep + emailValue,
				emailValue,
			}},
			{Name: constants.FieldPhone, Kind: KindText, Patterns: []string{
				`(?:\b(?:Phone|Mobile|Contact)\b|फ़ोन)` + sep + phoneValue,
				`\b(?:Tel|Telephone)\b` + sep + phoneValue,
			}},
		},
		Dates: []EventSpec{
			{Event: constants.EventBidEndDate, Patterns: []string{
				`(?:\b(?:Bid\s*End\s*Date|Last\s*Date\s*for\s*Submission|Closing\s*Date)\b|बोली\s*समाप्ति\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Submission\s*Deadline|Final\s*Date)\b` + timeSuffix + sep + dateValue,
			}},
			{Event: constants.EventBidOpeningDate, Patterns: []string{
				`(?:\b(?:Bid\s*Opening\s*Date|Opening\s*Date)\b|बोली\s*खोलने\s*की\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Technical\s*Bid\s*Opening|Price\s*Bid\s*Opening)\b` + timeSuffix + sep + dateValue,
			}},
			{Event: constants.EventPreBidDate, Patterns: []string{
				`(?:\bPre-Bid\s*(?:Date|Meeting|Conference)\b|प्री-बिड\s*तिथि)` + timeSuffix + sep + dateValue,
				`\b(?:Site\s*Visit|Clarification\s*Meeting)\b` + timeSuffix + sep + dateValue,
			}},
			{Event: constants.EventPublicationDate, Patterns: []string{
				`\b(?:Publication\s*Date|Published\s*on|Tender\s*Date)\b` + timeSuffix + sep + dateValue,
			}},
		},
		BOQ: &BOQSpec{
			Trigger:    `\bItem\s*Category\b|\bS(?:l)?\.?\s*No\b|\bSerial\b`,
			MinColumns: DefaultMinBOQColumns,
			Columns: []ColumnSpec{
				{Name: constants.ColumnItemCategory, Kind: KindText, Pattern: `\b(?:Item\s*Category|Category|Item\s*Description|Description)\b` + colSep + `(.+)`},
				{Name: constants.ColumnQuantity, Kind: KindText, Pattern: `\b(?:Quantity|Qty|Units?)\b` + colSep + `([0-9][0-9,.]*(?:\s*[A-Za-z]+)?)`},
				{Name: constants.ColumnDeliveryDays, Kind: KindText, Pattern: `\b(?:Delivery\s*Days?|Delivery\s*Period|Timeline)\b` + colSep + `([0-9]+\s?[A-Za-z]*)`},
				{Name: constants.ColumnConsignee, Kind: KindText, Pattern: `\b(?:Consignee|Delivery\s*Location|Location)\b` + colSep + `(.+)`},
				{Name: constants.ColumnUnit, Kind: KindText, Pattern: `\b(?:Unit|UOM|Measurement)\b` + colSep + `([A-Za-z]+)`},
				{Name: constants.ColumnRate, Kind: KindAmount, Pattern: `\b(?:Rate|Price|Cost)\b` + colSep + moneyValue},
				{Name: constants.ColumnAmount, Kind: KindAmount, Pattern: `\b(?:Amount|Total|Value)\b` + colSep + moneyValue},
			},
		},
		Critical: []string{constants.FieldTenderID, constants.FieldOrganization, constants.FieldBidEndDate},
	}
}
