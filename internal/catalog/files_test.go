package catalog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadFile(t *testing.T, url, field, name, content string) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/upload", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := uploadFile(t, ts.URL, "file", "notes.txt", "hello catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var up struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(raw, &up))
	assert.Equal(t, "success", up.Status)
	assert.True(t, strings.HasSuffix(up.Filename, "_notes.txt"), "stored name keeps the original suffix")

	// The stored name shows up in the listing.
	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/files", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(raw, &listing))
	assert.Contains(t, listing.Files, up.Filename)

	// And downloads byte-for-byte.
	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/download/"+up.Filename, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello catalog", string(raw))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), up.Filename)
}

func TestUploadMissingFileField(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := uploadFile(t, ts.URL, "wrong_field", "notes.txt", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadMissingFile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/download/nope.txt", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", errorMessage(t, raw))
}

func TestListFilesEmpty(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/files", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"files":[]}`, string(raw))
}
