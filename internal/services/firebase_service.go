package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:lookup"

// FirebaseService verifies phone-login ID tokens against the Google
// identity toolkit. The login flow trusts this collaborator to validate
// phone ownership; it holds no transaction and runs outside any.
type FirebaseService struct {
	apiKey string
}

// NewFirebaseService creates a new FirebaseService.
func NewFirebaseService(apiKey string) *FirebaseService {
	return &FirebaseService{apiKey: apiKey}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		PhoneNumber string `json:"phoneNumber"`
		Email       string `json:"email"`
	} `json:"users"`
}

// VerifyIDToken validates the token and returns the phone number it proves
// ownership of.
func (s *FirebaseService) VerifyIDToken(idToken string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("firebase api key not configured")
	}

	body, err := json.Marshal(lookupRequest{IDToken: idToken})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", identityToolkitURL, s.apiKey)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Firebase] token lookup failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("invalid or expired token")
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	if len(parsed.Users) == 0 || parsed.Users[0].PhoneNumber == "" {
		return "", fmt.Errorf("token valid but phone number missing")
	}

	return parsed.Users[0].PhoneNumber, nil
}
