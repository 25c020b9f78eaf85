package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/campusmove/moving_marketplace/configs"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	httpClient  *http.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService() {
	apiKey := config.Config("BREVO_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Notifications will be skipped.")
		EmailClient = nil
		return
	}

	EmailClient = &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *BrevoService) send(toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", brevoEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo rejected email (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendEmail delivers one transactional email, logging failures instead of
// returning them. Callers fire it on a goroutine so a slow or broken mail
// provider never blocks a request.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		return
	}
	if err := EmailClient.send(toEmail, toName, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		return
	}
	log.Printf("✅ Email sent to %s: %s", toEmail, subject)
}

// NotifyBookingRequested tells the provider a new request is waiting and
// confirms receipt to the student.
func NotifyBookingRequested(studentName, studentEmail, providerName, providerEmail, reference string) {
	SendEmail(providerName, providerEmail, "New Moving Request",
		fmt.Sprintf("<h1>New Booking Request</h1><p>A student has requested a move (reference %s). Confirm or decline it from your dashboard.</p>", reference))
	SendEmail(studentName, studentEmail, "We Got Your Request",
		fmt.Sprintf("<h1>Request Received</h1><p>Your moving request (reference %s) is waiting for the provider to confirm.</p>", reference))
}

// NotifyBookingStatusChanged emails both parties after a lifecycle change.
func NotifyBookingStatusChanged(studentName, studentEmail, providerName, providerEmail, reference, newStatus string) {
	subject := fmt.Sprintf("Booking %s is %s", reference, newStatus)
	body := fmt.Sprintf("<h1>Booking Update</h1><p>Booking %s is now <strong>%s</strong>.</p>", reference, newStatus)
	SendEmail(studentName, studentEmail, subject, body)
	SendEmail(providerName, providerEmail, subject, body)
}
