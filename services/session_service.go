package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is how close to expiry a cached ID token may get before
// Token exchanges the refresh token for a new one.
const refreshMargin = time.Minute

// CognitoAPI is the subset of the Cognito client used by SessionService.
type CognitoAPI interface {
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// SessionService owns the authenticated session: sign-up, confirmation,
// sign-in, and per-call token acquisition for every bearer-authenticated
// request. The session lives from SignIn to SignOut; everything the other
// services know about the current user flows through it.
type SessionService struct {
	Cognito  CognitoAPI
	ClientID string

	mu           sync.Mutex
	idToken      string
	refreshToken string
	expiresAt    time.Time
	subjectID    string
}

// NewSessionService builds a SessionService backed by the Cognito user pool
// app client identified by clientID.
func NewSessionService(cfg aws.Config, clientID string) *SessionService {
	return &SessionService{
		Cognito:  cognitoidentityprovider.NewFromConfig(cfg),
		ClientID: clientID,
	}
}

// SignUp registers a new account. The account stays pending until Confirm is
// called with the emailed confirmation code.
func (s *SessionService) SignUp(ctx context.Context, email, password, nickname string) error {
	if email == "" || password == "" {
		return &ValidationError{Field: "email", Message: "email and password are required"}
	}
	_, err := s.Cognito.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.ClientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []cognitotypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("nickname"), Value: aws.String(nickname)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign up %s: %w", email, err)
	}
	return nil
}

// Confirm activates a pending account with the emailed confirmation code.
func (s *SessionService) Confirm(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return &ValidationError{Field: "code", Message: "email and confirmation code are required"}
	}
	_, err := s.Cognito.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.ClientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
	})
	if err != nil {
		return fmt.Errorf("failed to confirm %s: %w", email, err)
	}
	return nil
}

// SignIn authenticates with email and password and adopts the issued tokens.
func (s *SessionService) SignIn(ctx context.Context, email, password string) error {
	out, err := s.Cognito.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(s.ClientID),
		AuthFlow: cognitotypes.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign in %s: %w", email, err)
	}
	result := out.AuthenticationResult
	if result == nil || result.IdToken == nil {
		return fmt.Errorf("sign-in for %s returned no tokens", email)
	}
	refresh := ""
	if result.RefreshToken != nil {
		refresh = *result.RefreshToken
	}
	return s.adopt(*result.IdToken, refresh)
}

// adopt parses a freshly issued ID token and stores it with its subject and
// expiry. The token is not signature-verified here: it came straight from the
// identity provider over TLS and is only read for its claims.
func (s *SessionService) adopt(idToken, refreshToken string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return fmt.Errorf("failed to parse id token: %w", err)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return fmt.Errorf("id token has no subject")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("id token has no expiry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.idToken = idToken
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
	s.expiresAt = exp.Time
	s.subjectID = sub
	return nil
}

// Token returns a bearer token for the current session, refreshing through
// the provider when the cached one is at or near expiry. With no active
// session, or when the refresh fails, it returns ErrUnauthenticated.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.idToken
	refresh := s.refreshToken
	stale := time.Until(s.expiresAt) < refreshMargin
	s.mu.Unlock()

	if token == "" {
		return "", ErrUnauthenticated
	}
	if !stale {
		return token, nil
	}
	if refresh == "" {
		return "", ErrUnauthenticated
	}

	out, err := s.Cognito.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		ClientId: aws.String(s.ClientID),
		AuthFlow: cognitotypes.AuthFlowTypeRefreshTokenAuth,
		AuthParameters: map[string]string{
			"REFRESH_TOKEN": refresh,
		},
	})
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return "", ErrUnauthenticated
	}
	if out.AuthenticationResult == nil || out.AuthenticationResult.IdToken == nil {
		return "", ErrUnauthenticated
	}
	if err := s.adopt(*out.AuthenticationResult.IdToken, ""); err != nil {
		log.Printf("Refreshed id token rejected: %v", err)
		return "", ErrUnauthenticated
	}

	s.mu.Lock()
	token = s.idToken
	s.mu.Unlock()
	return token, nil
}

// SubjectID returns the subject identifier of the signed-in user.
func (s *SessionService) SubjectID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subjectID == "" {
		return "", ErrUnauthenticated
	}
	return s.subjectID, nil
}

// SignOut discards the local session.
func (s *SessionService) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idToken = ""
	s.refreshToken = ""
	s.subjectID = ""
	s.expiresAt = time.Time{}
}
