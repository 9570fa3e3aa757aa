package ingest

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	proposaldomain "rfp-backend/internal/proposal/domain"
	proposalrepo "rfp-backend/internal/proposal/repository"
	"rfp-backend/pkg/gmail"

	gmailapi "google.golang.org/api/gmail/v1"
)

// DeadLetterLabel marks messages whose subject carries no usable RFP tag.
// Labelled messages are excluded from the poll query, so an unmatched message
// is looked at exactly once instead of staying unread-but-filtered forever.
const DeadLetterLabel = "rfp-unmatched"

const pollQuery = "is:unread subject:RFP- -label:" + DeadLetterLabel

var rfpSubjectPattern = regexp.MustCompile(`RFP-([a-zA-Z0-9]+)`)

// MailboxClient is the slice of the Gmail client the ingestion pass needs.
type MailboxClient interface {
	ListUnprocessed(query string) ([]string, error)
	Fetch(messageID string) (*gmailapi.Message, error)
	MarkProcessed(messageID string) error
	EnsureLabel(name string) (string, error)
	ApplyLabel(messageID, labelID string) error
}

// Authorizer produces an authenticated mailbox client for a pass.
type Authorizer func(ctx context.Context) (MailboxClient, error)

// Extractor is the slice of the AI service the ingestion pass needs.
type Extractor interface {
	ExtractVendorResponse(ctx context.Context, emailText string) (proposaldomain.ParsedBid, error)
}

type messageStatus int

const (
	statusProcessed messageStatus = iota
	statusSkipped
)

// PassSummary reports what one polling pass did.
type PassSummary struct {
	Processed int
	Skipped   int
}

// Orchestrator runs one ingestion pass: list unread tagged messages, fetch
// each, decode the body, extract bid data and persist a proposal, then mark
// the message read. No state survives a pass beyond the mailbox's own
// read/unread flags and labels.
type Orchestrator struct {
	authorize Authorizer
	extractor Extractor
	proposals proposalrepo.ProposalRepository

	deadLetterID string
}

func NewOrchestrator(authorize Authorizer, extractor Extractor, proposals proposalrepo.ProposalRepository) *Orchestrator {
	return &Orchestrator{
		authorize: authorize,
		extractor: extractor,
		proposals: proposals,
	}
}

// RunPass executes one polling pass. Messages are processed strictly one at a
// time; the first message that fails aborts the remainder of the pass, so the
// failed message stays unread and is reconsidered on the next poll. Skips
// (unmatched subjects) are dead-lettered and do not stop the pass.
func (o *Orchestrator) RunPass(ctx context.Context) (PassSummary, error) {
	var summary PassSummary

	client, err := o.authorize(ctx)
	if err != nil {
		return summary, fmt.Errorf("authorization failed: %w", err)
	}

	if o.deadLetterID == "" {
		labelID, err := client.EnsureLabel(DeadLetterLabel)
		if err != nil {
			return summary, fmt.Errorf("unable to ensure dead-letter label: %w", err)
		}
		o.deadLetterID = labelID
	}

	ids, err := client.ListUnprocessed(pollQuery)
	if err != nil {
		return summary, err
	}
	if len(ids) == 0 {
		log.Println("[Ingest] No new RFP emails.")
		return summary, nil
	}

	log.Printf("[Ingest] Found %d new emails. Processing...", len(ids))

	for _, id := range ids {
		status, err := o.processMessage(ctx, client, id)
		if err != nil {
			return summary, fmt.Errorf("message %s: %w", id, err)
		}
		switch status {
		case statusProcessed:
			summary.Processed++
		case statusSkipped:
			summary.Skipped++
		}
	}

	return summary, nil
}

func (o *Orchestrator) processMessage(ctx context.Context, client MailboxClient, messageID string) (messageStatus, error) {
	msg, err := client.Fetch(messageID)
	if err != nil {
		return statusSkipped, err
	}
	if msg == nil || msg.Payload == nil {
		// Nothing to match or decode; park it like any other unusable message.
		if err := client.ApplyLabel(messageID, o.deadLetterID); err != nil {
			return statusSkipped, err
		}
		log.Printf("[Ingest] Skipping message without payload: %s", messageID)
		return statusSkipped, nil
	}

	subject := gmail.Header(msg.Payload.Headers, "Subject")
	from := gmail.Header(msg.Payload.Headers, "From")
	body := gmail.PlainTextBody(msg.Payload)

	match := rfpSubjectPattern.FindStringSubmatch(subject)
	if match == nil {
		// Not a vendor reply we can attribute; park it under the dead-letter
		// label so the next poll no longer sees it.
		if err := client.ApplyLabel(messageID, o.deadLetterID); err != nil {
			return statusSkipped, err
		}
		log.Printf("[Ingest] Skipping message without RFP tag: %q", subject)
		return statusSkipped, nil
	}
	rfpID := match[1]

	log.Printf("[Ingest] Processing: %s", subject)

	bid, err := o.extractor.ExtractVendorResponse(ctx, body)
	if err != nil {
		return statusSkipped, err
	}

	proposal := &proposaldomain.Proposal{
		RFPID:        rfpID,
		VendorEmail:  from,
		RawEmailBody: body,
		ParsedData:   bid,
		ReceivedAt:   time.Now(),
	}
	if err := o.proposals.Create(proposal); err != nil {
		// Message stays unread and is retried next poll; no data lost.
		return statusSkipped, err
	}

	// A crash between Create and MarkProcessed means the message is
	// reprocessed next poll and a duplicate proposal appears. Accepted: no
	// exactly-once guarantee.
	if err := client.MarkProcessed(messageID); err != nil {
		return statusSkipped, err
	}

	log.Printf("[Ingest] Saved proposal for RFP %s from %s", rfpID, from)
	return statusProcessed, nil
}
