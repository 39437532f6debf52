//go:build unit

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEditorHandler_Apply(t *testing.T) {
	// The real service keeps these tests honest about the wire format.
	h := NewEditorHandler(service.NewEditorService(), logger.Nop())

	t.Run("toggles a mark", func(t *testing.T) {
		body := `{"document":` + helloPayload + `,
			"selection":{"anchor":{"path":[0,0],"offset":0},"focus":{"path":[0,0],"offset":5}},
			"command":"toggleMark","format":"bold"}`
		rr := httptest.NewRecorder()

		h.apply(rr, postJSON("/api/editor", body))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		var resp struct {
			Active struct {
				Marks map[string]bool `json:"marks"`
			} `json:"active"`
			HTML string `json:"html"`
			Text string `json:"text"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Active.Marks["bold"])
		assert.Contains(t, resp.HTML, "<strong>hello</strong>")
		assert.Equal(t, "hello", resp.Text)
	})

	t.Run("unknown command", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.apply(rr, postJSON("/api/editor", `{"document":[],"command":"explode"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "unknown editor command")
	})

	t.Run("invalid link", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.apply(rr, postJSON("/api/editor", `{"document":[],"command":"wrapLink","url":"not a url"}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), `"url"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.apply(rr, postJSON("/api/editor", `{`))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})
}

func TestEditorHandler_Preview(t *testing.T) {
	h := NewEditorHandler(service.NewEditorService(), logger.Nop())

	rr := httptest.NewRecorder()
	h.preview(rr, postJSON("/api/preview", `{"document":`+helloPayload+`}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hello")

	rr = httptest.NewRecorder()
	h.preview(rr, postJSON("/api/preview", `{}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = httptest.NewRecorder()
	h.preview(rr, postJSON("/api/preview", `{"document":[{"type":"marquee","children":[]}]}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
