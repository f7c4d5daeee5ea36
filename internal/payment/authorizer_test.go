package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidMethod(t *testing.T) {
	require.True(t, ValidMethod(MethodCard))
	require.True(t, ValidMethod(MethodWallet))
	require.True(t, ValidMethod(MethodBankTransfer))
	require.False(t, ValidMethod("IOU"))
	require.False(t, ValidMethod(""))
	require.False(t, ValidMethod("card"))
}

func TestGatewayClient_Approved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reference string `json:"reference"`
			UserID    uint64 `json:"user_id"`
			Method    string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, uint64(7), req.UserID)
		require.Equal(t, MethodCard, req.Method)
		require.NotEmpty(t, req.Reference)
		json.NewEncoder(w).Encode(map[string]any{"approved": true, "ref": "gw-996"})
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, time.Second)
	auth, err := client.Authorize(context.Background(), 7, MethodCard)
	require.NoError(t, err)
	require.Equal(t, "gw-996", auth.Ref)
	require.False(t, auth.IssuedAt.IsZero())
}

func TestGatewayClient_ApprovedWithoutRefKeepsRequestReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"approved": true})
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, time.Second)
	auth, err := client.Authorize(context.Background(), 7, MethodWallet)
	require.NoError(t, err)
	require.NotEmpty(t, auth.Ref, "the request UUID must survive as the reference")
}

func TestGatewayClient_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"approved": false, "reason": "Card expired"})
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, time.Second)
	_, err := client.Authorize(context.Background(), 7, MethodCard)
	var declined *DeclinedError
	require.ErrorAs(t, err, &declined)
	require.Equal(t, "Card expired", declined.Reason)
}

func TestGatewayClient_UnexpectedStatusIsNotADecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewGatewayClient(srv.URL, time.Second)
	_, err := client.Authorize(context.Background(), 7, MethodCard)
	require.Error(t, err)
	var declined *DeclinedError
	require.False(t, errors.As(err, &declined), "infrastructure failures must not read as declines")
}
