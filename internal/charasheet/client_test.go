package charasheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dollsheet/internal/nechronica"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"bare id", "5132265", "5132265", nil},
		{"padded id", "  42 ", "42", nil},
		{"full-width id", "５１３２", "5132", nil},
		{"root url", "https://charasheet.vampire-blood.net/5132265", "5132265", nil},
		{"nested url", "https://charasheet.vampire-blood.net/sheet/5132265", "5132265", nil},
		{"last numeric segment", "https://charasheet.vampire-blood.net/12/list/345", "345", nil},
		{"no scheme", "charasheet.vampire-blood.net/777", "777", nil},
		{"query ignored", "https://charasheet.vampire-blood.net/99?mode=edit", "99", nil},
		{"other host", "https://example.com/5132265", "", ErrUnsupportedURL},
		{"no numeric segment", "https://charasheet.vampire-blood.net/list", "", ErrInvalidIdentifier},
		{"mixed segment", "https://charasheet.vampire-blood.net/m12345", "", ErrInvalidIdentifier},
		{"empty", "", "", ErrInvalidIdentifier},
		{"word", "doll", "", ErrInvalidIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIdentifier(tt.input, DefaultHost)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c := NewClient(srv.URL, u.Hostname(), time.Second, zap.NewNop())
	return c, srv
}

func TestFetch_JSON(t *testing.T) {
	var gotPath string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pc_name":"ドール","Power_name":["のうみそ"],"Power_hantei":["4"]}`))
	}))

	res, err := c.Fetch(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "/123.js", gotPath)
	assert.Equal(t, "123", res.SheetID)

	sheet, err := nechronica.Normalize(res.Raw)
	require.NoError(t, err)
	assert.Equal(t, "ドール", sheet.Name)
	require.Len(t, sheet.Maneuvers, 1)
	assert.Equal(t, nechronica.AttachmentHead, sheet.Maneuvers[0].Attachment)
}

func TestFetch_JSONP(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jsonp_cb({\"pc_name\":\"ドール\"});\n"))
	}))

	res, err := c.Fetch(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "ドール", res.Raw["pc_name"])
}

func TestFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		reason  Reason
		wantErr error
	}{
		{"404", http.StatusNotFound, "", ReasonNotFound, ErrNotFound},
		{"500", http.StatusInternalServerError, "oops", ReasonNotFound, ErrNotFound},
		{"empty body", http.StatusOK, "  ", ReasonNotFound, ErrNotFound},
		{"html", http.StatusOK, "<html>nope</html>", ReasonMalformedResponse, ErrMalformedResponse},
		{"array", http.StatusOK, `[1,2]`, ReasonMalformedResponse, ErrMalformedResponse},
		{"broken jsonp", http.StatusOK, `cb({"a":1`, ReasonMalformedResponse, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := c.Fetch(context.Background(), "1")
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.reason, fe.Reason)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotEmpty(t, fe.Message())
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)
	c.Timeout = 50 * time.Millisecond

	_, err := c.Fetch(context.Background(), "1")
	require.ErrorIs(t, err, ErrTimedOut)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ReasonTimedOut, fe.Reason)
}

func TestFetch_NoRequestForBadIdentifier(t *testing.T) {
	var calls atomic.Int32
	c, srv := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	tests := []struct {
		in     string
		reason Reason
		target error
	}{
		{"https://example.com/1", ReasonUnsupportedURL, ErrUnsupportedURL},
		{"nothing here", ReasonInvalidIdentifier, ErrInvalidIdentifier},
		{srv.URL + "/list", ReasonInvalidIdentifier, ErrInvalidIdentifier},
	}
	for _, tt := range tests {
		_, err := c.Fetch(context.Background(), tt.in)
		require.ErrorIs(t, err, tt.target, tt.in)
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, tt.reason, fe.Reason, tt.in)
	}
	assert.Zero(t, calls.Load())
	assert.NotEqual(t, reasonMessages[ReasonUnsupportedURL], reasonMessages[ReasonInvalidIdentifier])
}

func TestDemo(t *testing.T) {
	res, err := Demo()
	require.NoError(t, err)
	assert.Equal(t, DemoSheetID, res.SheetID)

	sheet, err := nechronica.Normalize(res.Raw)
	require.NoError(t, err)
	assert.Equal(t, "テストドール", sheet.Name)
	assert.Equal(t, 3, sheet.Abilities.Dexterity)
	assert.Len(t, sheet.Maneuvers, 12)
	assert.Len(t, sheet.MemoryFragments, 2)
	assert.Len(t, sheet.Treasures, 1)
	assert.Equal(t, nechronica.AttachmentPosition, sheet.Maneuvers[3].Attachment)
	assert.Equal(t, 2, sheet.Maneuvers[2].Cost)

	again, err := Demo()
	require.NoError(t, err)
	again.Raw["pc_name"] = "changed"
	assert.Equal(t, "テストドール", res.Raw["pc_name"])
}
