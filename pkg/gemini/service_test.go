package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candidateServer returns a test server that answers every generateContent
// call with the given model text.
func candidateServer(t *testing.T, modelText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": modelText}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestService(t *testing.T, srv *httptest.Server) *GeminiService {
	t.Helper()
	svc := NewGeminiService("test-key")
	svc.BaseURL = srv.URL
	return svc
}

func TestExtractRequestReturnsRawModelText(t *testing.T) {
	raw := `{"title":"Laptops","budget":500000,"currency":"INR","items":[]}`
	srv := candidateServer(t, raw)
	defer srv.Close()

	got, err := newTestService(t, srv).ExtractRequest(context.Background(), "need 5 laptops under 5 lakh")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestExtractVendorResponseParsesBid(t *testing.T) {
	srv := candidateServer(t, `{
		"isBid": true,
		"totalPrice": 250000,
		"currency": "INR",
		"deliveryDate": "2026-09-04",
		"deliveryTerm": "3 days",
		"warranty": "1 year",
		"lineItems": [{"name": "Laptop", "unitPrice": 50000, "quantity": 5, "totalLinePrice": 250000, "specs": "16GB RAM"}]
	}`)
	defer srv.Close()

	bid, err := newTestService(t, srv).ExtractVendorResponse(context.Background(), "We quote 2,50,000 delivered in 3 days")
	require.NoError(t, err)

	assert.True(t, bid.IsBid)
	require.NotNil(t, bid.TotalPrice)
	assert.Equal(t, 250000.0, *bid.TotalPrice)
	assert.Equal(t, "INR", bid.Currency)
	require.NotNil(t, bid.DeliveryDate)
	assert.Equal(t, "2026-09-04", *bid.DeliveryDate)
	assert.Equal(t, "1 year", bid.Warranty)
	require.Len(t, bid.LineItems, 1)
	assert.Equal(t, "Laptop", bid.LineItems[0].Name)
}

func TestExtractVendorResponseDefaultsWhenFieldsOmitted(t *testing.T) {
	srv := candidateServer(t, `{"totalPrice": 1000}`)
	defer srv.Close()

	bid, err := newTestService(t, srv).ExtractVendorResponse(context.Background(), "quote")
	require.NoError(t, err)

	assert.True(t, bid.IsBid, "isBid defaults to true when the model omits it")
	assert.Equal(t, "INR", bid.Currency)
}

func TestExtractVendorResponseDecline(t *testing.T) {
	srv := candidateServer(t, `{"isBid": false, "totalPrice": null, "deliveryDate": null}`)
	defer srv.Close()

	bid, err := newTestService(t, srv).ExtractVendorResponse(context.Background(), "We decline, cannot quote at this time.")
	require.NoError(t, err)

	assert.False(t, bid.IsBid)
	assert.Nil(t, bid.TotalPrice)
	assert.Nil(t, bid.DeliveryDate)
}

func TestExtractVendorResponseInvalidJSONYieldsEmptyBid(t *testing.T) {
	srv := candidateServer(t, "Sorry, I could not process that email.")
	defer srv.Close()

	bid, err := newTestService(t, srv).ExtractVendorResponse(context.Background(), "garbage")

	require.NoError(t, err, "a model parse failure is swallowed, not propagated")
	assert.Zero(t, bid, "nothing extracted means the zero ParsedBid")
}

func TestProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestService(t, srv)

	_, err := svc.ExtractRequest(context.Background(), "text")
	assert.ErrorContains(t, err, "Gemini API error")

	_, err = svc.ExtractVendorResponse(context.Background(), "text")
	assert.ErrorContains(t, err, "Gemini API error")
}

func TestNoCandidatesIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	_, err := newTestService(t, srv).ExtractRequest(context.Background(), "text")
	assert.ErrorContains(t, err, "no completion returned")
}
