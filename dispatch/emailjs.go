package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

const DefaultEmailJSBaseURL = "https://api.emailjs.com"

// EmailJSSender posts template sends to the EmailJS REST API.
type EmailJSSender struct {
	BaseURL     string
	Credentials CredentialsProvider
	HTTPClient  *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func NewEmailJSSender(credentials CredentialsProvider, opts ...func(*EmailJSSender)) *EmailJSSender {
	s := &EmailJSSender{
		BaseURL:     DefaultEmailJSBaseURL,
		Credentials: credentials,
		HTTPClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithBaseURL(baseURL string) func(*EmailJSSender) {
	return func(s *EmailJSSender) {
		if strings.TrimSpace(baseURL) != "" {
			s.BaseURL = baseURL
		}
	}
}

func WithHTTPClient(client *http.Client) func(*EmailJSSender) {
	return func(s *EmailJSSender) {
		if client != nil {
			s.HTTPClient = client
		}
	}
}

func (s *EmailJSSender) Send(ctx context.Context, payload Payload) error {
	if s == nil || s.Credentials == nil {
		return ErrMissingCredentials
	}
	creds, err := s.Credentials.EmailCredentials(ctx)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}
	if !creds.Complete() {
		return ErrMissingCredentials
	}

	body, err := sonic.Marshal(emailJSRequest{
		ServiceID:      creds.ServiceID,
		TemplateID:     creds.TemplateID,
		UserID:         creds.PublicKey,
		AccessToken:    creds.PrivateKey,
		TemplateParams: payload.TemplateParams(),
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: %d: %s", ErrProviderRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// IsProviderRejection reports whether err came from a non-2xx provider answer.
func IsProviderRejection(err error) bool {
	return errors.Is(err, ErrProviderRejected)
}
