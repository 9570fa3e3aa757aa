package dto

import "rfp-backend/internal/rfp/domain"

// ParseRequest is the body of POST /api/rfp/parse
type ParseRequest struct {
	RFPText string `json:"rfpText" binding:"required"`
}

// CreateAndSendRequest is the body of POST /api/rfp/create-and-send.
// RFPText carries the already-structured RFP (usually the output of /parse).
type CreateAndSendRequest struct {
	RFPText      domain.RFP `json:"rfpText" binding:"required"`
	VendorEmails []string   `json:"vendorEmails" binding:"required"`
}
