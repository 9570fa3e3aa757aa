package domain

import "time"

// BidLineItem is one quoted item inside a vendor bid
type BidLineItem struct {
	Name           string   `json:"name"`
	UnitPrice      *float64 `json:"unitPrice,omitempty"`
	Quantity       int      `json:"quantity"`
	TotalLinePrice *float64 `json:"totalLinePrice,omitempty"`
	Specs          string   `json:"specs,omitempty"`
}

// ParsedBid is the structured data the AI extracts from a vendor reply.
// The zero value means "nothing could be extracted", not an empty bid.
type ParsedBid struct {
	IsBid        bool          `json:"isBid"`
	TotalPrice   *float64      `json:"totalPrice,omitempty"`
	Currency     string        `json:"currency,omitempty"`
	DeliveryDate *string       `json:"deliveryDate,omitempty"` // YYYY-MM-DD, nil when vague ("ASAP")
	DeliveryTerm string        `json:"deliveryTerm,omitempty"`
	Warranty     string        `json:"warranty,omitempty"`
	LineItems    []BidLineItem `json:"lineItems,omitempty"`
}

// Proposal is one vendor reply to an RFP. RFPID is whatever the subject tag
// carried and is intentionally not a foreign key: replies referencing unknown
// RFPs are still recorded.
type Proposal struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	RFPID        string    `json:"rfp_id" gorm:"index"`
	VendorEmail  string    `json:"vendor_email" gorm:"not null"`
	RawEmailBody string    `json:"raw_email_body"`
	ParsedData   ParsedBid `json:"parsed_data" gorm:"serializer:json"`
	ReceivedAt   time.Time `json:"received_at"`
}
