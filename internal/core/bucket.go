package core

import (
	"errors"
	"strings"
)

// Bucket is an allocation category bound to one vesting contract.
type Bucket int

const (
	BucketUnknown Bucket = iota
	BucketEcosystem
	BucketFoundation
	BucketPrivateInvestor
	BucketTeam
	BucketMarketing
	BucketAdvisor
)

var (
	ErrUnrecognizedAddress = errors.New("unrecognized vesting address")
	ErrUnknownBucket       = errors.New("unknown allocation bucket")
)

// Buckets lists every known bucket in display order.
func Buckets() []Bucket {
	return []Bucket{
		BucketEcosystem,
		BucketFoundation,
		BucketPrivateInvestor,
		BucketTeam,
		BucketMarketing,
		BucketAdvisor,
	}
}

// String returns the stable identifier used in URLs and logs.
func (b Bucket) String() string {
	switch b {
	case BucketEcosystem:
		return "ecosystem"
	case BucketFoundation:
		return "foundation"
	case BucketPrivateInvestor:
		return "privateInvestor"
	case BucketTeam:
		return "team"
	case BucketMarketing:
		return "marketing"
	case BucketAdvisor:
		return "advisor"
	default:
		return "unknown"
	}
}

// DisplayName returns the human readable bucket name.
func (b Bucket) DisplayName() string {
	switch b {
	case BucketEcosystem:
		return "Ecosystem"
	case BucketFoundation:
		return "Foundation"
	case BucketPrivateInvestor:
		return "Private Investor"
	case BucketTeam:
		return "Team"
	case BucketMarketing:
		return "Marketing"
	case BucketAdvisor:
		return "Advisor"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether b is one of the six configured buckets.
func (b Bucket) IsKnown() bool {
	return b >= BucketEcosystem && b <= BucketAdvisor
}

// ParseBucket accepts the identifier form ("privateInvestor") as well as
// the snake and spaced variants ("private_investor", "private investor").
func ParseBucket(s string) (Bucket, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	for _, b := range Buckets() {
		if strings.ToLower(b.String()) == key {
			return b, nil
		}
	}
	return BucketUnknown, ErrUnknownBucket
}
