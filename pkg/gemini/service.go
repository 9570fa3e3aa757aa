package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type GeminiService struct {
	ApiKey  string
	BaseURL string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{ApiKey: apiKey, BaseURL: defaultBaseURL}
}

// ExtractRequest converts a natural-language purchase request into a
// structured RFP JSON string. The raw model text is returned unparsed; the
// caller owns parsing and any failure surfaces there.
func (g *GeminiService) ExtractRequest(ctx context.Context, rfpText string) (string, error) {
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

	return g.generateContent(ctx, prompt)
}

// ExtractVendorResponse extracts structured bid data from a vendor reply
// body. A model response that is not valid JSON is logged and swallowed: the
// zero ParsedBid comes back, meaning "nothing could be extracted". Transport
// and provider errors propagate to the caller.
func (g *GeminiService) ExtractVendorResponse(ctx context.Context, emailText string) (proposaldomain.ParsedBid, error) {
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

	text, err := g.generateContent(ctx, prompt)
	if err != nil {
		return proposaldomain.ParsedBid{}, err
	}

	// Defaults apply when the model omits a field; a parse failure resets to
	// the empty result rather than propagating.
	bid := proposaldomain.ParsedBid{IsBid: true, Currency: "INR"}
	if err := json.Unmarshal([]byte(text), &bid); err != nil {
		log.Printf("[Gemini] Error parsing bid: %v", err)
		return proposaldomain.ParsedBid{}, nil
	}
	return bid, nil
}

// generateContent performs a single non-streaming completion call.
func (g *GeminiService) generateContent(ctx context.Context, prompt string) (string, error) {
	url := g.BaseURL + "/v1beta/models/gemini-2.5-flash:generateContent?key=" + g.ApiKey

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no completion returned")
}
