package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const user = "me"

// ConsentFunc resolves the out-of-band OAuth consent step: it receives the
// authorization URL and returns the code the user obtained there. Injected so
// the first-run flow can be driven from a terminal in production and stubbed
// in tests.
type ConsentFunc func(authURL string) (string, error)

// StdinConsent prompts on the terminal and reads the authorization code back.
func StdinConsent(authURL string) (string, error) {
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return "", fmt.Errorf("unable to read authorization code: %w", err)
	}
	return authCode, nil
}

// Service creates authorized Gmail clients. The credential file lifecycle:
// absent -> written after the first successful consent flow -> read on every
// later startup. Delete the token file to force re-authorization.
type Service struct {
	credentialsPath string
	tokenPath       string
	consent         ConsentFunc

	mu     sync.Mutex
	client *Client
}

func NewService(credentialsPath, tokenPath string, consent ConsentFunc) *Service {
	if consent == nil {
		consent = StdinConsent
	}
	return &Service{
		credentialsPath: credentialsPath,
		tokenPath:       tokenPath,
		consent:         consent,
	}
}

// Client wraps an authenticated Gmail API handle.
type Client struct {
	srv *gmail.Service
}

// Authorize returns an authenticated client, running the interactive consent
// flow when no saved credential exists. The client is cached after the first
// success.
func (s *Service) Authorize(ctx context.Context) (*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	b, err := os.ReadFile(s.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := loadSavedToken(s.tokenPath)
	if err != nil {
		tok, err = s.tokenFromConsent(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		if err := saveToken(s.tokenPath, oauthConfig, tok); err != nil {
			return nil, err
		}
	}

	httpClient := oauthConfig.Client(ctx, tok)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	s.client = &Client{srv: srv}
	return s.client, nil
}

func (s *Service) tokenFromConsent(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	authCode, err := s.consent(authURL)
	if err != nil {
		return nil, err
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// authorizedUser is the on-disk credential format.
type authorizedUser struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

func loadSavedToken(path string) (*oauth2.Token, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var au authorizedUser
	if err := json.Unmarshal(content, &au); err != nil {
		return nil, err
	}
	if au.RefreshToken == "" {
		return nil, fmt.Errorf("credential file %s has no refresh token", path)
	}
	// The refresh token alone is enough: the token source mints access tokens
	// on demand.
	return &oauth2.Token{RefreshToken: au.RefreshToken}, nil
}

func saveToken(path string, config *oauth2.Config, tok *oauth2.Token) error {
	payload, err := json.Marshal(authorizedUser{
		Type:         "authorized_user",
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: tok.RefreshToken,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	return nil
}

// ListUnprocessed returns the ids of messages matching a Gmail search query.
// An empty mailbox is an empty slice, not an error.
func (c *Client) ListUnprocessed(query string) ([]string, error) {
	resp, err := c.srv.Users.Messages.List(user).Q(query).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %v", err)
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, nil
}

// Fetch retrieves the full content of one message.
func (c *Client) Fetch(messageID string) (*gmail.Message, error) {
	msg, err := c.srv.Users.Messages.Get(user, messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}
	return msg, nil
}

// MarkProcessed removes the UNREAD label. The unread flag doubles as the
// "already processed" marker, so this is both acknowledgment and dedup.
// Removing an absent label is a no-op on the Gmail side, making this
// idempotent.
func (c *Client) MarkProcessed(messageID string) error {
	modifyReq := &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}
	if _, err := c.srv.Users.Messages.Modify(user, messageID, modifyReq).Do(); err != nil {
		return fmt.Errorf("unable to mark message as read: %v", err)
	}
	return nil
}

// EnsureLabel returns the id of the named user label, creating it if missing.
func (c *Client) EnsureLabel(name string) (string, error) {
	labelsResp, err := c.srv.Users.Labels.List(user).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve labels: %v", err)
	}
	for _, label := range labelsResp.Labels {
		if label.Name == name {
			return label.Id, nil
		}
	}
	created, err := c.srv.Users.Labels.Create(user, &gmail.Label{Name: name}).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create label %s: %v", name, err)
	}
	return created.Id, nil
}

// ApplyLabel adds a label to a message.
func (c *Client) ApplyLabel(messageID, labelID string) error {
	modifyReq := &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}
	if _, err := c.srv.Users.Messages.Modify(user, messageID, modifyReq).Do(); err != nil {
		return fmt.Errorf("unable to apply label: %v", err)
	}
	return nil
}

// SendHTML sends an HTML email as the authenticated user.
func (c *Client) SendHTML(to, subject, htmlBody string) error {
	var emailMsg bytes.Buffer
	emailMsg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	// Encode subject to handle non-ASCII characters (RFC 2047)
	encodedSubject := fmt.Sprintf("=?utf-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(subject)))
	emailMsg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodedSubject))
	emailMsg.WriteString("MIME-Version: 1.0\r\n")
	emailMsg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	emailMsg.WriteString(htmlBody)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(emailMsg.Bytes()),
	}
	if _, err := c.srv.Users.Messages.Send(user, msg).Do(); err != nil {
		return fmt.Errorf("unable to send message: %v", err)
	}
	return nil
}

// SendHTML authorizes (or reuses the cached client) and sends an HTML email.
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	client, err := s.Authorize(ctx)
	if err != nil {
		return err
	}
	return client.SendHTML(to, subject, htmlBody)
}

// Header returns the value of a named header, or "" when absent.
func Header(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// PlainTextBody extracts the first text/plain part of a message payload,
// depth-first, decoded from its base64url transport encoding. Returns "" when
// no plain-text part exists; callers must tolerate that as a normal outcome.
func PlainTextBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	// Simple email: the payload itself carries the body
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}

	var textData string
	var findText func(parts []*gmail.MessagePart) bool
	findText = func(parts []*gmail.MessagePart) bool {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				textData = part.Body.Data
				return true
			}
			if len(part.Parts) > 0 && findText(part.Parts) {
				return true
			}
		}
		return false
	}
	findText(payload.Parts)

	if textData == "" {
		return ""
	}
	return decodeBody(textData)
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail sometimes omits padding
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}
