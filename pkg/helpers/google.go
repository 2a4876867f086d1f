package helpers

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of an ID token's claims the platform uses.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates Google ID tokens against the configured client id.
type GoogleVerifier struct {
	ClientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	if v.ClientID == "" {
		return nil, errors.New("google client id not configured")
	}
	p, err := idtoken.Validate(ctx, token, v.ClientID)
	if err != nil {
		return nil, err
	}
	email, _ := p.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email")
	}
	if verified, ok := p.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("google email %s not verified", email)
	}
	name, _ := p.Claims["name"].(string)
	picture, _ := p.Claims["picture"].(string)
	return &GoogleIdentity{Subject: p.Subject, Email: email, Name: name, Picture: picture}, nil
}
