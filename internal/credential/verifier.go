package credential

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSample means the sample bytes could not be decoded into
	// an image.
	ErrInvalidSample = errors.New("invalid credential sample")
	// ErrNoMatch means no stored template scored above the threshold.
	ErrNoMatch = errors.New("no matching credential")
)

// Record is a stored credential template, one per identity. Enrolling
// again overwrites the previous record.
type Record struct {
	IdentityID string
	Comparator string
	Template   string
	UpdatedAt  time.Time
}

// Store persists credential records keyed by identity id. Save must be
// atomic per identity: concurrent enrolls for the same identity leave
// the last committed record, never a partial one.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, identityID string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
}

// Match is a successful verification outcome.
type Match struct {
	IdentityID string
	Confidence float64
}

// Verifier enrolls and verifies credential samples against the store
// using a configured comparator and acceptance threshold.
type Verifier struct {
	store     Store
	cmp       Comparator
	threshold float64
	timeout   time.Duration
}

// NewVerifier creates a verifier. Threshold is the minimum confidence
// for a match; timeout bounds each store round trip.
func NewVerifier(store Store, cmp Comparator, threshold float64, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Verifier{store: store, cmp: cmp, threshold: threshold, timeout: timeout}
}

// Comparator returns the active comparator name.
func (v *Verifier) Comparator() string {
	return v.cmp.Name()
}

// Enroll decodes the sample, derives a template, and stores it for
// identityID, replacing any prior record. Returns ErrInvalidSample for
// undecodable input.
func (v *Verifier) Enroll(ctx context.Context, identityID string, sample []byte) (*Record, error) {
	if identityID == "" {
		return nil, errors.New("identity id is required")
	}

	tmpl, err := v.template(sample)
	if err != nil {
		return nil, err
	}

	rec := Record{
		IdentityID: identityID,
		Comparator: v.cmp.Name(),
		Template:   tmpl,
		UpdatedAt:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	if err := v.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving credential for %s: %w", identityID, err)
	}
	return &rec, nil
}

// Verify decodes the sample and scores it against every stored
// template, returning the best match at or above the threshold, or
// ErrNoMatch. Records enrolled under a different comparator are
// skipped rather than mis-scored.
func (v *Verifier) Verify(ctx context.Context, sample []byte) (*Match, error) {
	tmpl, err := v.template(sample)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	records, err := v.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}

	best := Match{Confidence: -1}
	for _, rec := range records {
		if rec.Comparator != v.cmp.Name() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := v.cmp.Compare(tmpl, rec.Template)
		if score > best.Confidence {
			best = Match{IdentityID: rec.IdentityID, Confidence: score}
		}
	}

	if best.IdentityID == "" || best.Confidence < v.threshold {
		return nil, ErrNoMatch
	}
	return &best, nil
}

func (v *Verifier) template(sample []byte) (string, error) {
	img, err := decode(sample)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSample, err)
	}
	tmpl, err := v.cmp.Template(img)
	if err != nil {
		return "", fmt.Errorf("deriving template: %w", err)
	}
	return tmpl, nil
}
