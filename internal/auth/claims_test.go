package auth

import (
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

func TestValidateClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tokens, err := NewTokens(Config{Secret: "unit-test-secret", ClockSkew: time.Second})
	require.NoError(t, err)
	tokens.WithNow(func() time.Time { return now })

	cases := []struct {
		name      string
		issuer    string
		audience  string
		subject   string
		notBefore time.Time
		expiry    time.Time
		wantErr   bool
	}{
		{name: "valid", issuer: defaultIssuer, audience: defaultAudience, subject: "3f1d1b0e-8b7a-4c3e-9a55-2d0f7c1e9b10", notBefore: now, expiry: now.Add(time.Minute)},
		{name: "issuer mismatch", issuer: "someone-else", audience: defaultAudience, subject: "x", notBefore: now, expiry: now.Add(time.Minute), wantErr: true},
		{name: "audience mismatch", issuer: defaultIssuer, audience: "storefront", subject: "x", notBefore: now, expiry: now.Add(time.Minute), wantErr: true},
		{name: "expired", issuer: defaultIssuer, audience: defaultAudience, subject: "x", notBefore: now.Add(-2 * time.Hour), expiry: now.Add(-time.Minute), wantErr: true},
		{name: "not yet valid", issuer: defaultIssuer, audience: defaultAudience, subject: "x", notBefore: now.Add(5 * time.Minute), expiry: now.Add(10 * time.Minute), wantErr: true},
		{name: "missing subject", issuer: defaultIssuer, audience: defaultAudience, notBefore: now, expiry: now.Add(time.Minute), wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := jwt.NewBuilder().
				Issuer(tc.issuer).
				Audience([]string{tc.audience}).
				IssuedAt(tc.notBefore).
				NotBefore(tc.notBefore).
				Expiration(tc.expiry)
			if tc.subject != "" {
				builder = builder.Subject(tc.subject)
			}
			token, err := builder.Build()
			require.NoError(t, err)

			err = tokens.validateClaims(token)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	tokens, err := NewTokens(Config{Secret: "unit-test-secret"})
	require.NoError(t, err)

	token, err := jwt.NewBuilder().Subject("3f1d1b0e-8b7a-4c3e-9a55-2d0f7c1e9b10").
		Issuer(defaultIssuer).Audience([]string{defaultAudience}).
		Expiration(time.Now().Add(time.Minute)).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS512, []byte("unit-test-secret")))
	require.NoError(t, err)

	_, err = tokens.Parse(string(signed))
	require.Error(t, err)
}
