package core

import (
	"errors"
	"testing"
)

func TestParseBucket(t *testing.T) {
	tests := []struct {
		in   string
		want Bucket
		ok   bool
	}{
		{"ecosystem", BucketEcosystem, true},
		{"Foundation", BucketFoundation, true},
		{"privateInvestor", BucketPrivateInvestor, true},
		{"private_investor", BucketPrivateInvestor, true},
		{"private investor", BucketPrivateInvestor, true},
		{" team ", BucketTeam, true},
		{"marketing", BucketMarketing, true},
		{"advisor", BucketAdvisor, true},
		{"advisors", BucketUnknown, false},
		{"", BucketUnknown, false},
	}
	for _, tc := range tests {
		got, err := ParseBucket(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrUnknownBucket) {
			t.Fatalf("%q expected ErrUnknownBucket, got %v", tc.in, err)
		}
	}
}

func TestBucketNames(t *testing.T) {
	for _, b := range Buckets() {
		if !b.IsKnown() {
			t.Errorf("%v should be known", b)
		}
		if b.String() == "unknown" || b.DisplayName() == "Unknown" {
			t.Errorf("%d has no name", b)
		}
	}
	if BucketUnknown.IsKnown() {
		t.Errorf("BucketUnknown must not be known")
	}
}
