package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/phanxgames/birthdaycard/internal/asset"
	"github.com/phanxgames/birthdaycard/internal/card"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImagesLoadDecodes(t *testing.T) {
	pic := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/god.png", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write(pic) })
	mux.HandleFunc("/junk.png", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not an image")) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	imgs := NewImages(zap.New(core))
	imgs.Load(context.Background(), asset.NewFetcher(srv.Client(), nil), []card.Blessing{
		{ID: "god", Image: srv.URL + "/god.png"},
		{ID: "parents", Image: srv.URL + "/junk.png"},
		{ID: "rishabh", Image: srv.URL + "/missing.png"},
		{ID: "none"},
	}, time.Second)

	assert.Equal(t, 1, imgs.pending())
	assert.Equal(t, 1, logs.FilterMessage("image undecodable").Len())
	_, ok := imgs.Get("god")
	assert.False(t, ok, "textures appear only after flush")
}
