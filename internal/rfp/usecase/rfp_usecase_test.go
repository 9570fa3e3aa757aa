package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	proposaldomain "rfp-backend/internal/proposal/domain"
	"rfp-backend/internal/rfp/domain"
	"rfp-backend/internal/rfp/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRFPRepo struct {
	created   []*domain.RFP
	createErr error
	byID      map[string]*domain.RFP
}

func (f *fakeRFPRepo) Create(rfp *domain.RFP) error {
	if f.createErr != nil {
		return f.createErr
	}
	if rfp.ID == "" {
		rfp.ID = repository.NewRFPID()
	}
	f.created = append(f.created, rfp)
	return nil
}

func (f *fakeRFPRepo) FindByID(id string) (*domain.RFP, error) {
	return f.byID[id], nil
}

func (f *fakeRFPRepo) FindAll() ([]*domain.RFP, error) {
	return f.created, nil
}

type fakeProposalRepo struct {
	byRFPID map[string][]*proposaldomain.Proposal
}

func (f *fakeProposalRepo) Create(p *proposaldomain.Proposal) error { return nil }

func (f *fakeProposalRepo) FindByRFPID(rfpID string) ([]*proposaldomain.Proposal, error) {
	return f.byRFPID[rfpID], nil
}

type fakeExtractor struct {
	raw string
	err error
}

func (f *fakeExtractor) ExtractRequest(ctx context.Context, rfpText string) (string, error) {
	return f.raw, f.err
}

func (f *fakeExtractor) ExtractVendorResponse(ctx context.Context, emailText string) (proposaldomain.ParsedBid, error) {
	return proposaldomain.ParsedBid{}, nil
}

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeDispatcher struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeDispatcher) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: htmlBody})
	return nil
}

// --- tests ---

func TestParseRequestForwardsRawModelText(t *testing.T) {
	u := NewRFPUsecase(&fakeRFPRepo{}, &fakeProposalRepo{}, &fakeExtractor{raw: `{"title":"Laptops"}`}, &fakeDispatcher{})

	got, err := u.ParseRequest(context.Background(), "need laptops")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Laptops"}`, got)
}

func TestCreateAndSendPersistsAndMailsEveryVendor(t *testing.T) {
	repo := &fakeRFPRepo{}
	dispatcher := &fakeDispatcher{}
	u := NewRFPUsecase(repo, &fakeProposalRepo{}, &fakeExtractor{}, dispatcher)

	rfp := &domain.RFP{
		Title: "Office Laptops",
		Items: []domain.LineItem{
			{Name: "Laptop", Quantity: 5, Specs: "16GB RAM, 512GB SSD"},
			{Name: "Docking station", Quantity: 5, Specs: "USB-C"},
		},
	}
	vendors := []string{"a@vendors.test", "b@vendors.test", "c@vendors.test"}

	created, err := u.CreateAndSend(context.Background(), rfp, vendors)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.NotEmpty(t, created.ID)
	assert.NotContains(t, created.ID, "-", "id must survive the subject tag regex")
	assert.Equal(t, domain.RFPStatusActive, created.Status)

	require.Len(t, dispatcher.sent, 3)
	wantSubject := fmt.Sprintf("[RFP-%s] Request for Proposal: Office Laptops", created.ID)
	for i, vendor := range vendors {
		assert.Equal(t, vendor, dispatcher.sent[i].to)
		assert.Equal(t, wantSubject, dispatcher.sent[i].subject)
		assert.Contains(t, dispatcher.sent[i].html, "Laptop")
		assert.Contains(t, dispatcher.sent[i].html, "16GB RAM, 512GB SSD")
		assert.Contains(t, dispatcher.sent[i].html, "REF: "+created.ID)
	}
}

func TestCreateAndSendSendFailurePropagates(t *testing.T) {
	u := NewRFPUsecase(&fakeRFPRepo{}, &fakeProposalRepo{}, &fakeExtractor{}, &fakeDispatcher{sendErr: errors.New("smtp down")})

	_, err := u.CreateAndSend(context.Background(), &domain.RFP{Title: "X"}, []string{"a@vendors.test"})
	assert.ErrorContains(t, err, "unable to send RFP to a@vendors.test")
}

func TestCreateAndSendRepoFailureSendsNothing(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	u := NewRFPUsecase(&fakeRFPRepo{createErr: errors.New("db down")}, &fakeProposalRepo{}, &fakeExtractor{}, dispatcher)

	_, err := u.CreateAndSend(context.Background(), &domain.RFP{Title: "X"}, []string{"a@vendors.test"})
	assert.Error(t, err)
	assert.Empty(t, dispatcher.sent)
}

func TestListProposals(t *testing.T) {
	proposals := &fakeProposalRepo{byRFPID: map[string][]*proposaldomain.Proposal{
		"AB123": {{RFPID: "AB123", VendorEmail: "vendor@acme.test"}},
	}}
	u := NewRFPUsecase(&fakeRFPRepo{}, proposals, &fakeExtractor{}, &fakeDispatcher{})

	got, err := u.ListProposals("AB123")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vendor@acme.test", got[0].VendorEmail)
}
