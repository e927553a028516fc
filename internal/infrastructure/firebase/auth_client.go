package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"foodstore/internal/session"
	"foodstore/pkg/errors"
)

// AuthClient adapts the Firebase Admin auth client to the identity
// provider and token verifier used by the service.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

func (f *AuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errors.Conflict("Email already registered")
		}
		return "", fmt.Errorf("create firebase user: %w", err)
	}

	return user.UID, nil
}

func (f *AuthClient) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete firebase user %s: %w", uid, err)
	}
	return nil
}

// Verify accepts ID tokens minted by Firebase client SDKs.
func (f *AuthClient) Verify(ctx context.Context, idToken string) (*session.Session, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	s := &session.Session{
		UID:      token.UID,
		Provider: session.ProviderFirebase,
	}
	if name, ok := token.Claims["name"].(string); ok {
		s.Username = name
	}
	return s, nil
}
