package battery

import (
	"math"
	"time"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
)

// ErrUnavailable indicates the platform returned no usable battery data
// this tick. Callers treat it as "skip this tick", not as a failure.
var ErrUnavailable = pkgerrors.New("battery reading unavailable")

// Source yields battery readings on demand. Implementations may block on
// platform I/O; callers are expected to bound the call themselves.
type Source interface {
	GetReading() (*Reading, error)
}

// SystemSource reads the first system battery via the distatus/battery
// library.
type SystemSource struct{}

var _ Source = SystemSource{}

// NewSystemSource returns a Source backed by the platform battery APIs.
func NewSystemSource() SystemSource {
	return SystemSource{}
}

// GetReading implements Source.
func (SystemSource) GetReading() (*Reading, error) {
	batteries, err := battery.GetAll()
	if err != nil {
		return nil, pkgerrors.Wrap(ErrUnavailable, err.Error())
	}
	if len(batteries) == 0 {
		return nil, ErrUnavailable
	}

	// Machines with multiple batteries exist but are out of scope; the
	// first battery is authoritative.
	bat := batteries[0]
	if bat.Full <= 0 {
		return nil, ErrUnavailable
	}

	pct := int(math.Round(bat.Current / bat.Full * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return &Reading{
		Percentage: pct,
		Charging:   bat.State == battery.Charging || bat.State == battery.Full,
		CapturedAt: time.Now(),
	}, nil
}
