package services

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCognito answers auth calls from canned tokens and records the flows it
// saw.
type fakeCognito struct {
	idToken      string
	refreshed    string
	flows        []cognitotypes.AuthFlowType
	signUps      int
	confirms     int
	initiateErrs []error
}

func (f *fakeCognito) SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	f.signUps++
	return &cognitoidentityprovider.SignUpOutput{}, nil
}

func (f *fakeCognito) ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error) {
	f.confirms++
	return &cognitoidentityprovider.ConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	f.flows = append(f.flows, params.AuthFlow)
	if len(f.initiateErrs) > 0 {
		err := f.initiateErrs[0]
		f.initiateErrs = f.initiateErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	token := f.idToken
	if params.AuthFlow == cognitotypes.AuthFlowTypeRefreshTokenAuth && f.refreshed != "" {
		token = f.refreshed
	}
	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &cognitotypes.AuthenticationResultType{
			IdToken:      aws.String(token),
			RefreshToken: aws.String("refresh-token"),
		},
	}, nil
}

func testIDToken(t *testing.T, sub string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSessionSignInExtractsSubject(t *testing.T) {
	cognito := &fakeCognito{idToken: testIDToken(t, "user-sub-1", time.Hour)}
	session := &SessionService{Cognito: cognito, ClientID: "client"}

	require.NoError(t, session.SignIn(context.Background(), "a@b.c", "pw"))

	sub, err := session.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, "user-sub-1", sub)

	token, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cognito.idToken, token)
	assert.Equal(t, []cognitotypes.AuthFlowType{cognitotypes.AuthFlowTypeUserPasswordAuth}, cognito.flows)
}

func TestSessionTokenRefreshesNearExpiry(t *testing.T) {
	fresh := testIDToken(t, "user-sub-1", time.Hour)
	cognito := &fakeCognito{
		idToken:   testIDToken(t, "user-sub-1", 10*time.Second),
		refreshed: fresh,
	}
	session := &SessionService{Cognito: cognito, ClientID: "client"}
	require.NoError(t, session.SignIn(context.Background(), "a@b.c", "pw"))

	token, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, token)
	assert.Contains(t, cognito.flows, cognitotypes.AuthFlowTypeRefreshTokenAuth)
}

func TestSessionTokenWithoutSession(t *testing.T) {
	session := &SessionService{Cognito: &fakeCognito{}, ClientID: "client"}

	_, err := session.Token(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = session.SubjectID()
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionSignOutDiscardsTokens(t *testing.T) {
	cognito := &fakeCognito{idToken: testIDToken(t, "user-sub-1", time.Hour)}
	session := &SessionService{Cognito: cognito, ClientID: "client"}
	require.NoError(t, session.SignIn(context.Background(), "a@b.c", "pw"))

	session.SignOut()

	_, err := session.Token(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionSignUpAndConfirm(t *testing.T) {
	cognito := &fakeCognito{}
	session := &SessionService{Cognito: cognito, ClientID: "client"}

	require.NoError(t, session.SignUp(context.Background(), "a@b.c", "pw", "amy"))
	require.NoError(t, session.Confirm(context.Background(), "a@b.c", "123456"))
	assert.Equal(t, 1, cognito.signUps)
	assert.Equal(t, 1, cognito.confirms)

	var validation *ValidationError
	require.ErrorAs(t, session.SignUp(context.Background(), "", "", "amy"), &validation)
	require.ErrorAs(t, session.Confirm(context.Background(), "a@b.c", ""), &validation)
}
