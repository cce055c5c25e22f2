package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/studio-manager/internal/httperr"
	uc "github.com/BruksfildServices01/studio-manager/internal/usecase/client"
)

func TestWhatsAppMessengerPostsTextMessage(t *testing.T) {
	var (
		path, auth string
		got        map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := uc.NewWhatsAppMessenger(srv.URL+"/", "12345", "secret")
	require.NoError(t, m.Send(context.Background(), "5511988887777", "Olá Carla!"))

	assert.Equal(t, "/12345/messages", path)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "5511988887777", got["to"])
	assert.Equal(t, "text", got["type"])
	assert.Equal(t, map[string]any{"body": "Olá Carla!"}, got["text"])
}

func TestWhatsAppMessengerRejectedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := uc.NewWhatsAppMessenger(srv.URL, "12345", "bad").Send(context.Background(), "5511988887777", "oi")
	require.Error(t, err)
	assert.Equal(t, httperr.KindUnavailable, httperr.KindOf(err))
	var be httperr.BusinessError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "message_not_delivered", be.Code)
	assert.Contains(t, be.Err.Error(), "status 401")
}
