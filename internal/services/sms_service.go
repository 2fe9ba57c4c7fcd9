package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/example/nandani/internal/utils"
)

const smsGatewayURL = "https://www.fast2sms.com/dev/bulkV2"

// SMSService delivers OTP codes through the SMS gateway. Delivery is
// fire-and-forget: a gateway outage must never block login, so failures are
// logged and the OTP stays available through server logs.
type SMSService struct {
	apiKey string
}

// NewSMSService creates a new SMSService.
func NewSMSService(apiKey string) *SMSService {
	return &SMSService{apiKey: apiKey}
}

type smsPayload struct {
	Route           string `json:"route"`
	VariablesValues string `json:"variables_values"`
	Numbers         string `json:"numbers"`
}

// SendOTP submits the code to the gateway on the OTP route. The gateway
// takes the bare ten-digit national number.
func (s *SMSService) SendOTP(phone, code string) error {
	if s.apiKey == "" {
		log.Println("[SMS] gateway key not configured, skipping delivery")
		return nil
	}

	payload := smsPayload{
		Route:           "otp",
		VariablesValues: code,
		Numbers:         utils.PhoneDigits(phone),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, smsGatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[SMS] failed to send OTP: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[SMS] unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
