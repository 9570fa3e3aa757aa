package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	proposaldomain "rfp-backend/internal/proposal/domain"
)

// OllamaService implements ExtractorService using an Ollama local LLM
type OllamaService struct {
	BaseURL string
	Model   string
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{BaseURL: baseURL, Model: model}
}

// ExtractRequest implements ExtractorService
// (Same prompt as Gemini for consistency across providers)
func (o *OllamaService) ExtractRequest(ctx context.Context, rfpText string) (string, error) {
	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a procurement expert.
Convert the following natural language request into a structured JSON RFP object.
Do not assume any details by yourself, only extract what is explicitly mentioned.
Assume the date of today is %s.

User Request: "%s"

Output Format (JSON Only):
{
  "title": "Short descriptive title",
  "budget": Number (or null),
  "currency": "INR",
  "deadline": "ISO Date String (calculate based on 'in 30 days' etc, or default to 14 days from now)",
  "items": [
    { "name": "Item Name", "quantity": Number, "specs": "Key specifications" }
  ]
}

Do not include markdown formatting like `+"```json"+`. Return pure JSON string.`, today, rfpText)

	return o.generate(ctx, prompt)
}

// ExtractVendorResponse implements ExtractorService
// (Same prompt as Gemini for consistency across providers)
func (o *OllamaService) ExtractVendorResponse(ctx context.Context, emailText string) (proposaldomain.ParsedBid, error) {
	today := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You are a procurement AI. Extract structured data from this vendor email.

CONTEXT:
- Today's Date: %s
- System Currency: INR (All monetary values must be treated as INR)

EMAIL CONTENT: "%s"

INSTRUCTIONS:
1. DATES:
   - If a specific time frame is given ("in 3 days"), calculate the exact YYYY-MM-DD.
   - If vague ("ASAP", "Immediate"), set "deliveryDate" to null.
2. MONEY:
   - Remove commas from numbers (e.g., "1,00,000" becomes 100000).
   - Ignore "$" or other symbols; treat the raw number as INR.
3. ITEMS:
   - Extract "unitPrice" for a single item.
4. FAILURES:
   - If the vendor declines the bid (e.g. "We cannot quote"), set "isBid" to false.

OUTPUT JSON SCHEMA (Return ONLY this raw JSON, no markdown):
{
  "isBid": Boolean,
  "totalPrice": Number, // null if not found
  "currency": "INR",    // Hardcoded per requirements
  "deliveryDate": "YYYY-MM-DD", // null if "ASAP" or vague
  "deliveryTerm": "String", // e.g. "3-4 weeks", "Immediately"
  "warranty": "String",
  "lineItems": [
    {
      "name": "String",
      "unitPrice": Number,
      "quantity": Number,
      "totalLinePrice": Number,
      "specs": "String"
    }
  ]
}`, today, emailText)

	text, err := o.generate(ctx, prompt)
	if err != nil {
		return proposaldomain.ParsedBid{}, err
	}

	bid := proposaldomain.ParsedBid{IsBid: true, Currency: "INR"}
	if err := json.Unmarshal([]byte(text), &bid); err != nil {
		log.Printf("[Ollama] Error parsing bid: %v", err)
		return proposaldomain.ParsedBid{}, nil
	}
	return bid, nil
}

func (o *OllamaService) generate(ctx context.Context, prompt string) (string, error) {
	url := o.BaseURL + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.Model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.3,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Response, nil
}
