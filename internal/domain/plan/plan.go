// internal/domain/plan/plan.go
package plan

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type Key string

const (
	Free    Key = "free"
	Basic   Key = "basic"
	Premium Key = "premium"
)

// Unlimited is the catalog sentinel for "no cap" on item limits.
const Unlimited = math.MaxInt32

// displayOrder drives the plans page layout. Do not sort it.
var displayOrder = []Key{Free, Basic, Premium}

// Keys returns the plan keys in display order.
func Keys() []Key {
	out := make([]Key, len(displayOrder))
	copy(out, displayOrder)
	return out
}

// Rank orders plans free < basic < premium. Unknown keys rank 0.
func (k Key) Rank() int {
	switch k {
	case Free:
		return 1
	case Basic:
		return 2
	case Premium:
		return 3
	default:
		return 0
	}
}

func (k Key) Valid() bool {
	return k.Rank() > 0
}

func (k Key) String() string {
	return string(k)
}

// ErrUnknownPlan is matched by every *UnknownPlanError.
var ErrUnknownPlan = errors.New("unknown subscription plan")

// UnknownPlanError reports a plan key outside the catalog.
type UnknownPlanError struct {
	Value string
}

func (e *UnknownPlanError) Error() string {
	return fmt.Sprintf("unknown subscription plan %q", e.Value)
}

func (e *UnknownPlanError) Is(target error) bool {
	return target == ErrUnknownPlan
}

// ParseKey converts untyped external data (DB column, query string) into a Key.
// Surrounding whitespace and case are ignored; anything else is an UnknownPlanError.
func ParseKey(raw string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", &UnknownPlanError{Value: raw}
	}
	return k, nil
}

// Features is the capability bundle a plan unlocks on a venue listing.
type Features struct {
	WhatsApp      bool `json:"whatsapp" yaml:"whatsapp"`
	Socials       bool `json:"socials" yaml:"socials"`
	ProductsLimit int  `json:"products_limit" yaml:"products_limit"`
	Verified      bool `json:"verified" yaml:"verified"`
	Coupons       bool `json:"coupons" yaml:"coupons"`
	Featured      bool `json:"featured" yaml:"featured"`
	GalleryLimit  int  `json:"gallery_limit" yaml:"gallery_limit"`
}

type Plan struct {
	Key      Key      `json:"key" yaml:"key"`
	Name     string   `json:"name" yaml:"name"`
	Price    int      `json:"price" yaml:"price"`
	Features Features `json:"features" yaml:"features"`
}
