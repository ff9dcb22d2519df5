package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/modfsm"
	"github.com/aretw0/modfsm/internal/logging"
	httpAdapter "github.com/aretw0/modfsm/pkg/adapters/http"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() http.Handler {
	return httpAdapter.NewHandler(modfsm.New(modfsm.WithMaxModulus(1000)), logging.NewNop(), nil)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRemainder(t *testing.T) {
	w := do(t, newHandler(), http.MethodPost, "/remainder", `{"modulus":3,"input":"1101"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"modulus":3,"remainder":1}`, w.Body.String())
}

func TestRemainder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
		contains string
	}{
		{"EmptyInput", `{"modulus":3,"input":""}`, http.StatusBadRequest, "invalid_input", "input must not be empty"},
		{"BadSymbol", `{"modulus":3,"input":"10120"}`, http.StatusBadRequest, "invalid_input", "'2'"},
		{"SmallModulus", `{"modulus":1,"input":"1"}`, http.StatusBadRequest, "invalid_input", "modulus must be greater than 1"},
		{"TooLarge", `{"modulus":5000,"input":"1"}`, http.StatusBadRequest, "invalid_input", "exceeds the limit"},
		{"BadJSON", `{"modulus":`, http.StatusBadRequest, "request", "invalid request body"},
		{"UnknownField", `{"modulus":3,"input":"1","base":2}`, http.StatusBadRequest, "request", "unknown field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newHandler(), http.MethodPost, "/remainder", tt.body)
			require.Equal(t, tt.wantCode, w.Code)

			var resp httpAdapter.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Contains(t, resp.Error, tt.contains)
		})
	}
}

func TestRemainderStream(t *testing.T) {
	h := newHandler()

	w := do(t, h, http.MethodPost, "/remainder/stream?modulus=7", "101\n010\n")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"modulus":7,"remainder":0}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/remainder/stream?modulus=x", "1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/remainder/stream?modulus=7", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "input must not be empty")
}

func TestAutomaton(t *testing.T) {
	h := newHandler()

	w := do(t, h, http.MethodGet, "/automata/3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var def domain.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, 3, def.States)
	assert.Equal(t, []domain.State{0, 1, 2, 0, 1, 2}, def.Table)

	w = do(t, h, http.MethodGet, "/automata/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/automata/three", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraph(t *testing.T) {
	h := newHandler()

	w := do(t, h, http.MethodGet, "/automata/3/graph?input=1101", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph LR")
	assert.Contains(t, w.Body.String(), "class r1 current;")

	w = do(t, h, http.MethodGet, "/automata/3/graph?input=12", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthzAndMount(t *testing.T) {
	h := httpAdapter.NewHandler(modfsm.New(), logging.NewNop(), func(r chi.Router) {
		r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	})

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/extra", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
}
