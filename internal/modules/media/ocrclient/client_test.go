package ocrclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RecognizeImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recognize/image", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"stakecomaugust25","confidence":87}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.RecognizeImage(context.Background(), []byte{0x1, 0x2})
	require.NoError(t, err)
	assert.Equal(t, "stakecomaugust25", res.Text)
	assert.Equal(t, 87, res.Confidence)
}

func TestClient_RecognizeVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recognize/video", r.URL.Path)
		assert.Equal(t, "video/mp4", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"text":"dropfriday2024","confidence":61,"frames_examined":4}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.RecognizeVideo(context.Background(), []byte{0x1}, "")
	require.NoError(t, err)
	assert.Equal(t, "dropfriday2024", res.Text)
	assert.Equal(t, 4, res.FramesExamined)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.RecognizeImage(context.Background(), nil)
	assert.Error(t, err)
}
