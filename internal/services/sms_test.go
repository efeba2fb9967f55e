package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/gehma/internal/apperrors"
)

func newTestTwilioVerifier(baseURL string) *TwilioVerifier {
	return &TwilioVerifier{
		accountSID: "ACtest",
		authToken:  "secret",
		verifySID:  "VAtest",
		baseURL:    baseURL,
		client:     &http.Client{Timeout: time.Second},
		logger:     zap.NewNop(),
	}
}

func TestTwilioVerifierRequestCode(t *testing.T) {
	var gotPath, gotTo, gotChannel string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotTo = r.PostFormValue("To")
		gotChannel = r.PostFormValue("Channel")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	v := newTestTwilioVerifier(srv.URL)
	err := v.RequestCode(context.Background(), "+4366412345678")
	require.NoError(t, err)

	assert.Equal(t, "/Services/VAtest/Verifications", gotPath)
	assert.Equal(t, "+4366412345678", gotTo)
	assert.Equal(t, "sms", gotChannel)
	assert.Equal(t, "ACtest", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestTwilioVerifierRequestCodeGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := newTestTwilioVerifier(srv.URL)
	err := v.RequestCode(context.Background(), "+4366412345678")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindGateway, appErr.Kind)
}

func TestTwilioVerifierCheckCode(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		approved bool
	}{
		{
			name:     "approved",
			body:     `{"to":"+4366412345678","status":"approved","valid":true}`,
			approved: true,
		},
		{
			name:     "pending status",
			body:     `{"to":"+4366412345678","status":"pending","valid":false}`,
			approved: false,
		},
		{
			name:     "number mismatch",
			body:     `{"to":"+4365099999999","status":"approved","valid":true}`,
			approved: false,
		},
		{
			name:     "approved but not valid",
			body:     `{"to":"+4366412345678","status":"approved","valid":false}`,
			approved: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/Services/VAtest/VerificationCheck", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "123456", r.PostFormValue("Code"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			v := newTestTwilioVerifier(srv.URL)
			approved, err := v.CheckCode(context.Background(), "+4366412345678", "123456")
			require.NoError(t, err)
			assert.Equal(t, tc.approved, approved)
		})
	}
}

func TestTwilioVerifierCheckCodeNotFoundIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := newTestTwilioVerifier(srv.URL)
	approved, err := v.CheckCode(context.Background(), "+4366412345678", "000000")
	require.NoError(t, err)
	assert.False(t, approved)
}

func TestTwilioVerifierCheckCodeGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := newTestTwilioVerifier(srv.URL)
	_, err := v.CheckCode(context.Background(), "+4366412345678", "123456")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindGateway, appErr.Kind)
}

func TestFixedVerifiers(t *testing.T) {
	ctx := context.Background()

	ok, err := AcceptVerifier{}.CheckCode(ctx, "+4366412345678", "anything")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, AcceptVerifier{}.RequestCode(ctx, "+4366412345678"))

	ok, err = RejectVerifier{}.CheckCode(ctx, "+4366412345678", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, RejectVerifier{}.RequestCode(ctx, "+4366412345678"))
}
