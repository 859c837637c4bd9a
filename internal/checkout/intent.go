package checkout

import (
	"math"
	"math/rand"

	"github.com/videosplus/backend-videos/internal/video"
)

// decoyLabels is the fixed pool of generic product names sent to payment
// providers in place of the real video title. Provider statements and
// dashboards only ever see one of these.
var decoyLabels = []string{
	"Personal Development Ebook",
	"Financial Freedom Ebook",
	"Digital Marketing Guide",
	"Health & Wellness Ebook",
	"Productivity Masterclass",
	"Mindfulness & Meditation Guide",
	"Entrepreneurship Blueprint",
}

// PurchaseIntent carries everything a provider adapter needs to start a
// payment. MaskedLabel is the only product identity that leaves the system.
type PurchaseIntent struct {
	ContentID        string
	RealTitle        string
	AmountMinorUnits int64
	Currency         string
	MaskedLabel      string
}

// BuildIntent derives a purchase intent from a video. It always succeeds and
// draws a fresh masked label per attempt.
func BuildIntent(v video.Video, currency string) PurchaseIntent {
	return PurchaseIntent{
		ContentID:        v.ID,
		RealTitle:        v.Title,
		AmountMinorUnits: MinorUnits(v.Price),
		Currency:         currency,
		MaskedLabel:      randomDecoyLabel(),
	}
}

// MinorUnits converts a decimal price to minor units, rounding half up.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func randomDecoyLabel() string {
	return decoyLabels[rand.Intn(len(decoyLabels))]
}
