package app

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"github.com/phanxgames/birthdaycard/internal/asset"
	"github.com/phanxgames/birthdaycard/internal/card"
)

// Images holds poem pictures keyed by blessing ID. Downloads decode on a
// background goroutine; flush uploads them to textures on the UI goroutine.
type Images struct {
	logger *zap.Logger

	mu      sync.Mutex
	decoded map[string]image.Image

	ready map[string]*ebiten.Image
}

// NewImages returns an empty set. A nil logger discards output.
func NewImages(logger *zap.Logger) *Images {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Images{
		logger:  logger,
		decoded: make(map[string]image.Image),
		ready:   make(map[string]*ebiten.Image),
	}
}

// Load downloads and decodes every blessing image. It blocks until all
// downloads finish or timeout passes; run it on its own goroutine.
func (m *Images) Load(ctx context.Context, f *asset.Fetcher, blessings []card.Blessing, timeout time.Duration) {
	urls := make(map[string]string, len(blessings))
	for _, b := range blessings {
		if b.Image != "" {
			urls[b.ID] = b.Image
		}
	}
	for id, data := range f.FetchAll(ctx, urls, timeout) {
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			m.logger.Warn("image undecodable", zap.String("blessing", id), zap.Error(err))
			continue
		}
		m.logger.Debug("image loaded", zap.String("blessing", id), zap.String("format", format))
		m.mu.Lock()
		m.decoded[id] = img
		m.mu.Unlock()
	}
}

// pending returns how many decoded images wait for flush.
func (m *Images) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.decoded)
}

// flush turns decoded images into textures. Must run on the UI goroutine.
func (m *Images) flush() {
	m.mu.Lock()
	if len(m.decoded) == 0 {
		m.mu.Unlock()
		return
	}
	batch := m.decoded
	m.decoded = make(map[string]image.Image)
	m.mu.Unlock()

	for id, img := range batch {
		m.ready[id] = ebiten.NewImageFromImage(img)
	}
}

// Get returns the texture for a blessing once it has been flushed.
func (m *Images) Get(id string) (*ebiten.Image, bool) {
	img, ok := m.ready[id]
	return img, ok
}
