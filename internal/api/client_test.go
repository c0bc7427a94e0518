package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salus-health/salus/internal/errors"
	"github.com/salus-health/salus/internal/session"
)

func TestGetUser(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantAge int
	}{
		{
			name:    "profile_found",
			body:    `{"user": {"profile": {"age": 34, "gender": "female", "region": "Ontario"}}}`,
			wantAge: 34,
		},
		{
			name:    "user_without_profile",
			body:    `{"user": {}}`,
			wantErr: errors.ErrProfileNotFound,
		},
		{
			name:    "unknown_user",
			body:    `{}`,
			wantErr: errors.ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/user", r.URL.Path)
				assert.Equal(t, "cred-1", r.URL.Query().Get("passkey_id"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			profile, err := client.GetUser(context.Background(), "cred-1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAge, profile.Age)
		})
	}
}

func TestSaveUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/user", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cred-1", body["passkey_id"])

		profile, ok := body["profile"].(map[string]any)
		require.True(t, ok, "profile missing from body")
		assert.Equal(t, float64(29), profile["age"])
		assert.Equal(t, "Quebec", profile["region"])

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.SaveUser(context.Background(), "cred-1", &session.UserProfile{
		Age:    29,
		Gender: session.GenderMale,
		Region: "Quebec",
	})
	require.NoError(t, err)
}

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "cred-1", r.FormValue("passkey_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "bill.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake pdf bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"filename": "bill.pdf",
			"status": "uploaded",
			"bill_data": {
				"filename": "bill.pdf",
				"total": 5000,
				"services": ["Emergency Room Visit", "X-Ray"],
				"service": "Emergency Room Visit, X-Ray",
				"date": "2026-02-14",
				"provider": "General Hospital"
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	bill, err := client.Upload(context.Background(), "bill.pdf", strings.NewReader("fake pdf bytes"), "cred-1")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, bill.Total)
	assert.Len(t, bill.Services, 2)
	assert.Equal(t, "General Hospital", bill.Provider)
}

func TestUpload_AnonymousOmitsPasskey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present := r.MultipartForm.Value["passkey_id"]
		assert.False(t, present, "anonymous upload must not send passkey_id")

		_, _ = w.Write([]byte(`{"bill_data": {"total": 10}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Upload(context.Background(), "bill.jpg", strings.NewReader("img"), "")
	require.NoError(t, err)
}

func TestUpload_MissingBillData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "uploaded"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Upload(context.Background(), "bill.jpg", strings.NewReader("img"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bill_data")
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pol-1", req.PolicyID)
		assert.Equal(t, "Is my total correct?", req.Message)
		require.Len(t, req.History, 2)
		assert.Equal(t, "user", req.History[0].Role)
		assert.Equal(t, "assistant", req.History[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": "Yes, your total is $5,000. Ready to proceed?",
			"logs": ["Chat: Responded to user"],
			"analysis_complete": true
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Chat(context.Background(), ChatRequest{
		PolicyID: "pol-1",
		Message:  "Is my total correct?",
		History: []HistoryItem{
			{Role: "user", Content: "I uploaded my bill"},
			{Role: "assistant", Content: "I can see it"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Ready to proceed")
	assert.True(t, resp.AnalysisComplete)
}

func TestChat_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail": "upstream model unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Chat(context.Background(), ChatRequest{PolicyID: "pol-1", Message: "hi"})
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "/api/chat", apiErr.Endpoint)
	assert.True(t, errors.IsRetryable(err))
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)

		var req AnalyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ontario", req.Region)
		assert.Equal(t, 34, req.Age)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"bill_total": 5000,
			"private_coverage": 3500,
			"public_coverage": 1000,
			"final_cost": 500,
			"logs": ["Extractor: Starting bill analysis...", "Coordinator Agent: Coordination of Benefits complete!"],
			"summary": "After coordinating benefits, you pay: $500.00",
			"insurance_plan": "Sun Life Gold",
			"government_program": "Ontario Drug Benefit"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Analyze(context.Background(), AnalyzeRequest{
		PolicyID: "pol-1",
		Region:   "Ontario",
		Age:      34,
		Gender:   "female",
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, result.BillTotal)
	assert.Equal(t, 500.0, result.FinalCost)
	assert.Len(t, result.Logs, 2)
	assert.Equal(t, "Sun Life Gold", result.InsurancePlan)
}

func TestAnalyze_FillsSummaryFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bill_total": 100, "final_cost": 25, "logs": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Analyze(context.Background(), AnalyzeRequest{PolicyID: "pol-1"})
	require.NoError(t, err)
	assert.Equal(t, "After coordinating benefits, you pay: $25.00", result.Summary)
}

func TestBills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bills", r.URL.Path)
		assert.Equal(t, "cred-1", r.URL.Query().Get("passkey_id"))

		_, _ = w.Write([]byte(`{
			"bills": [
				{
					"bill_data": {"total": 5000, "provider": "General Hospital"},
					"analysis_result": {"bill_total": 5000, "private_coverage": 3500, "public_coverage": 1000, "final_cost": 500},
					"created_at": "2026-02-14T10:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	bills, err := client.Bills(context.Background(), "cred-1")
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, 500.0, bills[0].Analysis.FinalCost)
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"has_uploaded_file": true, "uploaded_file": "bill.pdf", "ready_for_analysis": true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.HasUploadedFile)
	assert.Equal(t, "bill.pdf", status.UploadedFile)
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestUnreachableBackend(t *testing.T) {
	// Port 1 is reserved; connections fail fast.
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Status(context.Background())
	require.Error(t, err)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, errors.IsRetryable(err))
}
