package ai

import (
	"context"

	proposaldomain "rfp-backend/internal/proposal/domain"
)

// ExtractorService is the interface for AI-backed procurement extraction.
// Implement this interface to add new AI providers (Gemini, Ollama, etc.)
type ExtractorService interface {
	// ExtractRequest turns free text into a structured RFP JSON string.
	// The raw model text is returned unparsed.
	ExtractRequest(ctx context.Context, rfpText string) (string, error)

	// ExtractVendorResponse parses a vendor reply into structured bid data.
	// Invalid model JSON yields the zero ParsedBid, not an error.
	ExtractVendorResponse(ctx context.Context, emailText string) (proposaldomain.ParsedBid, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
