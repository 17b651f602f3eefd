package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"vestadmin/internal/cache"
	"vestadmin/internal/core"
)

func TestReleaseService_Release(t *testing.T) {
	const hash = "0x5e1f0000000000000000000000000000000000000000000000000000000000aa"

	tests := []struct {
		name        string
		contract    string
		reader      *fakeReader
		releaser    *fakeReleaser
		noReleaser  bool
		wantErr     error
		wantRelease bool
	}{
		{
			name:        "submitted",
			contract:    testContracts.Ecosystem,
			reader:      &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser:    &fakeReleaser{hash: hash},
			wantRelease: true,
		},
		{
			name:     "unrecognized contract",
			contract: strayAddress,
			reader:   &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser: &fakeReleaser{hash: hash},
			wantErr:  core.ErrUnrecognizedAddress,
		},
		{
			name:       "no signer",
			contract:   testContracts.Ecosystem,
			reader:     &fakeReader{info: testVestingInfo(), chainID: 80002},
			noReleaser: true,
			wantErr:    ErrReleaseUnavailable,
		},
		{
			name:     "wrong network",
			contract: testContracts.Ecosystem,
			reader:   &fakeReader{info: testVestingInfo(), chainID: 137},
			releaser: &fakeReleaser{hash: hash},
			wantErr:  ErrWrongNetwork,
		},
		{
			name:     "nothing releasable",
			contract: testContracts.Team,
			reader:   &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser: &fakeReleaser{hash: hash},
			wantErr:  ErrNothingToRelease,
		},
		{
			name:     "contract missing from chain data",
			contract: testContracts.Advisor,
			reader:   &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser: &fakeReleaser{hash: hash},
			wantErr:  ErrNothingToRelease,
		},
		{
			name:     "chain read failure",
			contract: testContracts.Ecosystem,
			reader:   &fakeReader{infoErr: errors.New("rpc down"), chainID: 80002},
			releaser: &fakeReleaser{hash: hash},
			wantErr:  ErrVestingDataUnavailable,
		},
		{
			name:        "signer rejected",
			contract:    testContracts.Ecosystem,
			reader:      &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser:    &fakeReleaser{err: errors.New("User rejected the request.")},
			wantErr:     ErrReleaseRejected,
			wantRelease: true,
		},
		{
			name:        "transaction failed",
			contract:    testContracts.Ecosystem,
			reader:      &fakeReader{info: testVestingInfo(), chainID: 80002},
			releaser:    &fakeReleaser{err: errors.New("insufficient funds for gas")},
			wantErr:     ErrReleaseFailed,
			wantRelease: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			var releaser Releaser
			if !tt.noReleaser {
				releaser = tt.releaser
			}
			svc := NewReleaseService(tt.reader, releaser, newTestBook(t), testNetwork, nil, pub, time.Second)

			sub, err := svc.Release(context.Background(), tt.contract)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Release() error = %v, want %v", err, tt.wantErr)
			}

			if tt.releaser != nil {
				if got := len(tt.releaser.contracts); (got == 1) != tt.wantRelease || got > 1 {
					t.Errorf("releaser called %d times, wantRelease %v", got, tt.wantRelease)
				}
			}

			if tt.wantErr != nil {
				if len(pub.published) != 0 {
					t.Errorf("failed release must not be published")
				}
				return
			}
			if sub.TxHash != hash || sub.Bucket != core.BucketEcosystem || sub.ChainID != 80002 || sub.ID == "" {
				t.Errorf("submission = %+v", sub)
			}
			if len(pub.published) != 1 || pub.published[0].TxHash != hash {
				t.Errorf("published = %+v", pub.published)
			}
		})
	}
}

func TestReleaseService_InvalidatesDashboard(t *testing.T) {
	reader := &fakeReader{info: testVestingInfo(), chainID: 80002}
	book := newTestBook(t)
	dash := NewDashboardService(reader, book, testNetwork, cache.NewLRUCache[ChainSnapshot](1, time.Minute), time.Second)
	ctx := context.Background()

	if _, err := dash.Load(ctx, time.Now()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewReleaseService(reader, &fakeReleaser{hash: "0xabc"}, book, testNetwork, dash, pub, time.Second)
	if _, err := svc.Release(ctx, testContracts.Ecosystem); err != nil {
		t.Fatalf("publish failure must not fail the release: %v", err)
	}

	before := reader.calls
	if _, err := dash.Load(ctx, time.Now()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reader.calls != before+1 {
		t.Errorf("dashboard served from cache after release")
	}
}

func TestReleaseService_SubmissionIsBounded(t *testing.T) {
	reader := &fakeReader{info: testVestingInfo(), chainID: 80002}
	releaser := &fakeReleaser{hash: "0xabc"}
	svc := NewReleaseService(reader, releaser, newTestBook(t), testNetwork, nil, &fakePublisher{}, time.Second)

	if _, err := svc.Release(context.Background(), testContracts.Ecosystem); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if !releaser.deadline {
		t.Errorf("release submitted without a deadline")
	}
}
