package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/devaakutty/Shashi-backend/internal/auth"
	"github.com/devaakutty/Shashi-backend/internal/db/dbtest"
)

func TestSeedIsRepeatable(t *testing.T) {
	store := dbtest.New()
	operator := uuid.New()

	require.NoError(t, seed(context.Background(), store, operator))
	require.NoError(t, seed(context.Background(), store, operator))

	_, _, customerCount := store.Counts()
	require.Equal(t, len(customers), customerCount)
}

func TestTokenCommandMintsVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")
	operator := uuid.New()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--operator", operator.String()})
	require.NoError(t, root.Execute())

	tokens, err := auth.NewTokens(auth.Config{Secret: "cli-secret"})
	require.NoError(t, err)
	subject, err := tokens.Parse(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	require.Equal(t, operator.String(), subject)
}

func TestParseOperator(t *testing.T) {
	id, err := parseOperator("")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	_, err = parseOperator("not-a-uuid")
	require.Error(t, err)
}
